package api

import (
	"errors"
	"net/http"

	"github.com/putto11262002/chatroom/core"
)

type RoomHandler struct {
	rooms core.RoomStore
}

func NewRoomHandler(rooms core.RoomStore) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type RoomCredentialsPayload struct {
	Room     string `json:"room" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CheckRoomResponse struct {
	Exists bool  `json:"exists"`
	RoomID int64 `json:"room_id,omitempty"`
}

type CreateRoomResponse struct {
	Success bool  `json:"success"`
	RoomID  int64 `json:"room_id"`
}

// CheckRoomHandler reports whether a room exists and, when the supplied
// password matches, returns its id. It never creates a room.
func (h *RoomHandler) CheckRoomHandler(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()
	var payload RoomCredentialsPayload
	if err := DecodeJson(r.Body, &payload); err != nil {
		return NewApiError("invalid json", http.StatusBadRequest)
	}
	if err := core.ValidateStruct(&payload); err != nil {
		return NewApiError(core.FormatValidationErrors(err), http.StatusBadRequest)
	}

	room, err := h.rooms.GetRoomByName(r.Context(), payload.Room)
	if err != nil {
		return err
	}
	if room == nil {
		return WriteJsonResponse(w, CheckRoomResponse{Exists: false})
	}

	if err := room.ComparePassword(payload.Password); err != nil {
		return NewApiError("invalid password", http.StatusUnauthorized)
	}

	return WriteJsonResponse(w, CheckRoomResponse{Exists: true, RoomID: room.ID})
}

// CreateRoomHandler creates the room if its name is unseen. An existing
// name is treated as a login attempt: the stored password is never
// overwritten, and a matching password simply returns the room id.
func (h *RoomHandler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()
	var payload RoomCredentialsPayload
	if err := DecodeJson(r.Body, &payload); err != nil {
		return NewApiError("invalid json", http.StatusBadRequest)
	}
	if err := core.ValidateStruct(&payload); err != nil {
		return NewApiError(core.FormatValidationErrors(err), http.StatusBadRequest)
	}

	room, created, err := h.rooms.ResolveOrCreateRoom(r.Context(), payload.Room, payload.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			return NewApiError("invalid password", http.StatusUnauthorized)
		}
		return err
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return WriteJsonResponseWithStatusCode(w, CreateRoomResponse{Success: true, RoomID: room.ID}, code)
}
