package api_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putto11262002/chatroom/internal/api"
)

func listMessages(t *testing.T, f *ApiFixture, roomID int64, password string) *http.Response {
	return get(t, f, "/api/messages", url.Values{
		"room_id":  []string{strconv.FormatInt(roomID, 10)},
		"password": []string{password},
	})
}

func Test_SendMessageHandler(t *testing.T) {
	f := setUpTestApiServer(t)
	defer f.tearDown()
	roomID := createRoom(t, f, "lobby", "pw1")

	t.Run("send message successfully", func(t *testing.T) {
		before := time.Now().Unix()
		res := postJson(t, f, "/api/send_message", api.SendMessagePayload{
			RoomID: roomID, Password: "pw1", User: "alice", Text: "hi",
		})
		require.Equal(t, http.StatusOK, res.StatusCode)
		var body api.SendMessageResponse
		decodeJsonBody(t, res, &body)
		assert.True(t, body.Success)
		assert.NotZero(t, body.MessageID)

		listRes := listMessages(t, f, roomID, "pw1")
		require.Equal(t, http.StatusOK, listRes.StatusCode)
		var listBody api.ListMessagesResponse
		decodeJsonBody(t, listRes, &listBody)
		require.Len(t, listBody.Messages, 1)
		assert.Equal(t, body.MessageID, listBody.Messages[0].ID)
		assert.Equal(t, "alice", listBody.Messages[0].User)
		assert.Equal(t, "hi", listBody.Messages[0].Text)
		assert.False(t, listBody.Messages[0].IsFile)
		assert.GreaterOrEqual(t, listBody.Messages[0].Time, before)
	})

	t.Run("wrong password", func(t *testing.T) {
		res := postJson(t, f, "/api/send_message", api.SendMessagePayload{
			RoomID: roomID, Password: "wrong", User: "alice", Text: "hi",
		})
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		res := postJson(t, f, "/api/send_message", api.SendMessagePayload{
			RoomID: roomID, Password: "pw1", User: "alice",
		})
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func Test_ListMessagesHandler(t *testing.T) {
	f := setUpTestApiServer(t)
	defer f.tearDown()
	roomID := createRoom(t, f, "lobby", "pw1")

	t.Run("missing room id", func(t *testing.T) {
		res := get(t, f, "/api/messages", url.Values{"password": []string{"pw1"}})
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("missing password", func(t *testing.T) {
		res := get(t, f, "/api/messages", url.Values{"room_id": []string{strconv.FormatInt(roomID, 10)}})
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		res := listMessages(t, f, roomID, "wrong")
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("unknown room", func(t *testing.T) {
		res := listMessages(t, f, 4242, "pw1")
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("empty room returns empty list", func(t *testing.T) {
		res := listMessages(t, f, roomID, "pw1")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var body api.ListMessagesResponse
		decodeJsonBody(t, res, &body)
		assert.NotNil(t, body.Messages)
		assert.Len(t, body.Messages, 0)
	})
}

// Test_RoomScenario walks the full create / check / send / delete flow
// through the public surface.
func Test_RoomScenario(t *testing.T) {
	f := setUpTestApiServer(t)
	defer f.tearDown()

	// create lobby/pw1
	roomID := createRoom(t, f, "lobby", "pw1")

	// re-check with the right password yields the same id
	res := postJson(t, f, "/api/check_room", api.RoomCredentialsPayload{Room: "lobby", Password: "pw1"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var checkBody api.CheckRoomResponse
	decodeJsonBody(t, res, &checkBody)
	assert.True(t, checkBody.Exists)
	assert.Equal(t, roomID, checkBody.RoomID)

	// wrong password is rejected
	res = postJson(t, f, "/api/check_room", api.RoomCredentialsPayload{Room: "lobby", Password: "wrong"})
	res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// alice posts a message
	res = postJson(t, f, "/api/send_message", api.SendMessagePayload{
		RoomID: roomID, Password: "pw1", User: "alice", Text: "hi",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var sendBody api.SendMessageResponse
	decodeJsonBody(t, res, &sendBody)
	require.True(t, sendBody.Success)

	// the message is listed
	res = listMessages(t, f, roomID, "pw1")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listBody api.ListMessagesResponse
	decodeJsonBody(t, res, &listBody)
	require.Len(t, listBody.Messages, 1)
	assert.Equal(t, "alice", listBody.Messages[0].User)
	assert.Equal(t, "hi", listBody.Messages[0].Text)

	// bob cannot delete alice's message
	res = postJson(t, f, "/api/delete_message", api.DeleteMessagePayload{
		RoomID: roomID, Password: "pw1", MessageID: sendBody.MessageID, User: "bob",
	})
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	// alice can
	res = postJson(t, f, "/api/delete_message", api.DeleteMessagePayload{
		RoomID: roomID, Password: "pw1", MessageID: sendBody.MessageID, User: "alice",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var deleteBody api.DeleteMessageResponse
	decodeJsonBody(t, res, &deleteBody)
	assert.True(t, deleteBody.Success)

	// the room is empty again
	res = listMessages(t, f, roomID, "pw1")
	require.Equal(t, http.StatusOK, res.StatusCode)
	listBody = api.ListMessagesResponse{}
	decodeJsonBody(t, res, &listBody)
	assert.Len(t, listBody.Messages, 0)
}
