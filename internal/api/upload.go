package api

import (
	"errors"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/putto11262002/chatroom/core"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger files spill to temporary files.
const maxUploadMemory = 10 << 20

type UploadHandler struct {
	rooms   core.RoomStore
	uploads *core.UploadStore
	files   core.FileStore
}

func NewUploadHandler(rooms core.RoomStore, uploads *core.UploadStore, files core.FileStore) *UploadHandler {
	return &UploadHandler{rooms: rooms, uploads: uploads, files: files}
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Url      string `json:"url"`
}

// UploadHandler accepts a multipart form with fields file, room_id,
// password and user_name. The extension allow-list is checked before
// anything touches the filesystem or the database.
func (h *UploadHandler) UploadHandler(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return NewApiError("invalid multipart form", http.StatusBadRequest)
	}

	roomID, err := strconv.ParseInt(r.FormValue("room_id"), 10, 64)
	if err != nil {
		return NewApiError("room id required", http.StatusBadRequest)
	}
	password := r.FormValue("password")
	if password == "" {
		return NewApiError("password required", http.StatusBadRequest)
	}
	userName := r.FormValue("user_name")
	if userName == "" {
		return NewApiError("user name required", http.StatusBadRequest)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return NewApiError("file required", http.StatusBadRequest)
	}
	defer file.Close()

	room, err := authenticateRoom(r, h.rooms, roomID, password)
	if err != nil {
		return err
	}

	message, err := h.uploads.StoreUpload(r.Context(), room.ID, userName, header.Filename, file)
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedFileType) {
			return NewApiError(err.Error(), http.StatusBadRequest)
		}
		return err
	}

	return WriteJsonResponse(w, UploadResponse{
		Success:  true,
		Filename: message.Body,
		Url:      path.Join("/api/uploads", message.Body),
	})
}

// ServeUploadHandler serves a stored file by name. Matching the original
// system's static serving, no room password is required here; the stored
// names are unguessable.
func (h *UploadHandler) ServeUploadHandler(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "filename")

	f, err := h.files.Open(name)
	if err != nil {
		if errors.Is(err, core.ErrFileNotFound) {
			return NewApiError("file not found", http.StatusNotFound)
		}
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	return nil
}
