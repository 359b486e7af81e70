package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type SQLiteRoomStore struct {
	db *sql.DB
}

func NewSQLiteRoomStore(db *sql.DB) *SQLiteRoomStore {
	return &SQLiteRoomStore{db: db}
}

func (s *SQLiteRoomStore) ResolveOrCreateRoom(ctx context.Context, name, password string) (*Room, bool, error) {
	room, err := s.GetRoomByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("GetRoomByName: %w", err)
	}
	if room != nil {
		if err := room.ComparePassword(password); err != nil {
			return nil, false, err
		}
		return room, false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}

	createdAt := time.Now().Unix()
	query := `INSERT INTO rooms (name, password_hash, created_at)
	          VALUES (@name, @password_hash, @created_at) RETURNING id`
	row := s.db.QueryRowContext(ctx, query,
		sql.Named("name", name),
		sql.Named("password_hash", string(hashed)),
		sql.Named("created_at", createdAt))

	var id int64
	if err := row.Scan(&id); err != nil {
		// Lost a concurrent create race on the UNIQUE constraint.
		// Exactly one insert wins; this call becomes a login attempt
		// against the winner's stored password.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			winner, err := s.GetRoomByName(ctx, name)
			if err != nil {
				return nil, false, fmt.Errorf("GetRoomByName: %w", err)
			}
			if winner == nil {
				return nil, false, fmt.Errorf("room %q disappeared after constraint violation", name)
			}
			if err := winner.ComparePassword(password); err != nil {
				return nil, false, err
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("row.Scan: %w", err)
	}

	return &Room{
		ID:           id,
		Name:         name,
		CreatedAt:    createdAt,
		PasswordHash: string(hashed),
	}, true, nil
}

func (s *SQLiteRoomStore) GetRoomByName(ctx context.Context, name string) (*Room, error) {
	query := `SELECT id, name, password_hash, created_at FROM rooms WHERE name = @name`
	row := s.db.QueryRowContext(ctx, query, sql.Named("name", name))

	var room Room
	if err := row.Scan(&room.ID, &room.Name, &room.PasswordHash, &room.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return &room, nil
}

func (s *SQLiteRoomStore) AuthenticateRoom(ctx context.Context, roomID int64, password string) (*Room, error) {
	query := `SELECT id, name, password_hash, created_at FROM rooms WHERE id = @id`
	row := s.db.QueryRowContext(ctx, query, sql.Named("id", roomID))

	var room Room
	if err := row.Scan(&room.ID, &room.Name, &room.PasswordHash, &room.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	if err := room.ComparePassword(password); err != nil {
		return nil, err
	}

	return &room, nil
}
