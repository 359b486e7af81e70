package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/putto11262002/chatroom/core"
	"github.com/putto11262002/chatroom/internal/api"
)

type ApiFixture struct {
	Server    *httptest.Server
	UploadDir string
	t         *testing.T
	tearDown  func()
}

func setUpTestApiServer(t *testing.T) *ApiFixture {
	db, err := core.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), "../../migrations", &core.SQLiteDBOption{
		Mode:          "rwc",
		JournalMode:   "WAL",
		ForeignKeys:   true,
		BusyTimeoutMS: 5000,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	uploadDir := t.TempDir()
	_api, err := api.NewApi(db.DB, api.ApiConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		UploadDir:      uploadDir,
	})
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Mount("/api", _api.Mux())

	server := httptest.NewServer(r)

	return &ApiFixture{
		Server:    server,
		UploadDir: uploadDir,
		t:         t,
		tearDown: func() {
			server.Close()
			db.Close()
		},
	}
}

func encodeJsonBody(t *testing.T, v any) io.Reader {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func decodeJsonBody(t *testing.T, res *http.Response, v any) {
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func postJson(t *testing.T, f *ApiFixture, path string, payload any) *http.Response {
	u, err := url.JoinPath(f.Server.URL, path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Server.Client().Post(u, "application/json", encodeJsonBody(t, payload))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func get(t *testing.T, f *ApiFixture, path string, query url.Values) *http.Response {
	u, err := url.JoinPath(f.Server.URL, path)
	if err != nil {
		t.Fatal(err)
	}
	if query != nil {
		u = u + "?" + query.Encode()
	}
	res, err := f.Server.Client().Get(u)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// createRoom provisions a room through the public surface and returns its id.
func createRoom(t *testing.T, f *ApiFixture, room, password string) int64 {
	res := postJson(t, f, "/api/create_room", api.RoomCredentialsPayload{Room: room, Password: password})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create_room: unexpected status %d", res.StatusCode)
	}
	var body api.CreateRoomResponse
	decodeJsonBody(t, res, &body)
	return body.RoomID
}

type multipartUpload struct {
	fieldValues map[string]string
	fileName    string
	fileData    []byte
}

func postMultipart(t *testing.T, f *ApiFixture, path string, upload multipartUpload) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range upload.fieldValues {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if upload.fileName != "" {
		fw, err := w.CreateFormFile("file", upload.fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(upload.fileData); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	u, err := url.JoinPath(f.Server.URL, path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Server.Client().Post(u, w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	return res
}
