package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/putto11262002/chatroom/core"
)

type MessageHandler struct {
	rooms    core.RoomStore
	messages core.MessageStore
}

func NewMessageHandler(rooms core.RoomStore, messages core.MessageStore) *MessageHandler {
	return &MessageHandler{rooms: rooms, messages: messages}
}

type MessageResponse struct {
	ID     int64  `json:"id"`
	User   string `json:"user"`
	Text   string `json:"text"`
	Time   int64  `json:"time"`
	IsFile bool   `json:"is_file"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type SendMessagePayload struct {
	RoomID   int64  `json:"room_id" validate:"required"`
	Password string `json:"password" validate:"required"`
	User     string `json:"user" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

type SendMessageResponse struct {
	Success   bool  `json:"success"`
	MessageID int64 `json:"message_id"`
}

type DeleteMessagePayload struct {
	RoomID    int64  `json:"room_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
	MessageID int64  `json:"message_id" validate:"required"`
	User      string `json:"user" validate:"required"`
}

type DeleteMessageResponse struct {
	Success bool `json:"success"`
}

func NewMessageResponse(message core.Message) MessageResponse {
	return MessageResponse{
		ID:     message.ID,
		User:   message.Author,
		Text:   message.Body,
		Time:   message.Timestamp,
		IsFile: message.IsFile,
	}
}

func NewMessagesResponse(messages []core.Message) []MessageResponse {
	messagesResponse := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		messagesResponse = append(messagesResponse, NewMessageResponse(message))
	}
	return messagesResponse
}

// authenticateRoom maps store credential failures to client-safe errors.
func authenticateRoom(r *http.Request, rooms core.RoomStore, roomID int64, password string) (*core.Room, error) {
	room, err := rooms.AuthenticateRoom(r.Context(), roomID, password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrRoomNotFound):
			return nil, NewApiError("room not found", http.StatusNotFound)
		case errors.Is(err, core.ErrInvalidCredentials):
			return nil, NewApiError("invalid password", http.StatusUnauthorized)
		default:
			return nil, err
		}
	}
	return room, nil
}

// ListMessagesHandler returns every message of the room ordered by
// timestamp, ties broken by insertion id.
func (h *MessageHandler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) error {
	roomID, err := strconv.ParseInt(r.URL.Query().Get("room_id"), 10, 64)
	if err != nil {
		return NewApiError("room id required", http.StatusBadRequest)
	}
	password := r.URL.Query().Get("password")
	if password == "" {
		return NewApiError("password required", http.StatusBadRequest)
	}

	room, err := authenticateRoom(r, h.rooms, roomID, password)
	if err != nil {
		return err
	}

	messages, err := h.messages.ListMessages(r.Context(), room.ID)
	if err != nil {
		return err
	}

	return WriteJsonResponse(w, ListMessagesResponse{Messages: NewMessagesResponse(messages)})
}

func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()
	var payload SendMessagePayload
	if err := DecodeJson(r.Body, &payload); err != nil {
		return NewApiError("invalid json", http.StatusBadRequest)
	}
	if err := core.ValidateStruct(&payload); err != nil {
		return NewApiError(core.FormatValidationErrors(err), http.StatusBadRequest)
	}

	room, err := authenticateRoom(r, h.rooms, payload.RoomID, payload.Password)
	if err != nil {
		return err
	}

	message, err := h.messages.AppendMessage(r.Context(), core.MessageCreateInput{
		RoomID: room.ID,
		Author: payload.User,
		Body:   payload.Text,
	})
	if err != nil {
		return err
	}

	return WriteJsonResponse(w, SendMessageResponse{Success: true, MessageID: message.ID})
}

// DeleteMessageHandler hard-deletes a message. The only authorization is
// an exact match between the supplied user and the stored author; a
// missing message and a mismatched author produce the same 404.
func (h *MessageHandler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()
	var payload DeleteMessagePayload
	if err := DecodeJson(r.Body, &payload); err != nil {
		return NewApiError("invalid json", http.StatusBadRequest)
	}
	if err := core.ValidateStruct(&payload); err != nil {
		return NewApiError(core.FormatValidationErrors(err), http.StatusBadRequest)
	}

	room, err := authenticateRoom(r, h.rooms, payload.RoomID, payload.Password)
	if err != nil {
		return err
	}

	if err := h.messages.DeleteMessage(r.Context(), room.ID, payload.MessageID, payload.User); err != nil {
		if errors.Is(err, core.ErrMessageNotFound) {
			return NewApiError(err.Error(), http.StatusNotFound)
		}
		return err
	}

	return WriteJsonResponse(w, DeleteMessageResponse{Success: true})
}
