package core

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Room represents a named, password-gated message channel.
// Rooms are created once and are immutable afterwards: no rename,
// no password change, no deletion.
type Room struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	// PasswordHash is the bcrypt digest of the room password.
	// It never leaves the store layer.
	PasswordHash string `json:"-"`
}

// ComparePassword compares password against the room's stored bcrypt
// digest. The comparison runs in constant time with respect to the digest.
func (r *Room) ComparePassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

var (
	// ErrInvalidCredentials is returned when the supplied room password
	// does not match the stored digest.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRoomNotFound is returned when no room exists for the given id or name.
	ErrRoomNotFound = errors.New("room not found")
)

type RoomStore interface {
	// ResolveOrCreateRoom creates the room if the name has not been seen
	// before, otherwise it treats the call as a login attempt against the
	// stored password. The boolean reports whether the room was created by
	// this call. An existing room's password is never overwritten.
	//
	// Two concurrent calls for the same unused name are resolved by the
	// UNIQUE constraint on rooms.name: exactly one insert wins, the loser
	// re-validates against the winner's stored password.
	ResolveOrCreateRoom(ctx context.Context, name, password string) (*Room, bool, error)

	// GetRoomByName returns the room with the given name, or nil if it
	// does not exist.
	GetRoomByName(ctx context.Context, name string) (*Room, error)

	// AuthenticateRoom compares password against the stored digest of the
	// room with the given id. It returns ErrRoomNotFound for an unknown id
	// and ErrInvalidCredentials on a mismatch.
	AuthenticateRoom(ctx context.Context, roomID int64, password string) (*Room, error)
}
