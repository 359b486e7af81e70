package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SQLiteMessageStore struct {
	db *sql.DB
}

func NewSQLiteMessageStore(db *sql.DB) *SQLiteMessageStore {
	return &SQLiteMessageStore{db: db}
}

func (s *SQLiteMessageStore) AppendMessage(ctx context.Context, input MessageCreateInput) (*Message, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("Validate: %w", err)
	}

	timestamp := time.Now().Unix()
	query := `
	INSERT INTO messages (room_id, user_name, body, is_file, timestamp)
	VALUES (@room_id, @user_name, @body, @is_file, @timestamp) RETURNING id`
	row := s.db.QueryRowContext(ctx, query,
		sql.Named("room_id", input.RoomID),
		sql.Named("user_name", input.Author),
		sql.Named("body", input.Body),
		sql.Named("is_file", input.IsFile),
		sql.Named("timestamp", timestamp))

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return &Message{
		ID:        id,
		RoomID:    input.RoomID,
		Author:    input.Author,
		Body:      input.Body,
		IsFile:    input.IsFile,
		Timestamp: timestamp,
	}, nil
}

func (s *SQLiteMessageStore) ListMessages(ctx context.Context, roomID int64) ([]Message, error) {
	query := `
	SELECT id, room_id, user_name, body, is_file, timestamp
	FROM messages
	WHERE room_id = @room_id
	ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("room_id", roomID))
	if err != nil {
		return nil, fmt.Errorf("QueryContext: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var message Message
		if err := rows.Scan(&message.ID, &message.RoomID, &message.Author,
			&message.Body, &message.IsFile, &message.Timestamp); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return messages, nil
}

func (s *SQLiteMessageStore) DeleteMessage(ctx context.Context, roomID, messageID int64, author string) error {
	// The author equality check doubles as the authorization check, so a
	// missing row and a mismatched author are indistinguishable here.
	query := `
	DELETE FROM messages
	WHERE id = @id AND room_id = @room_id AND user_name = @user_name`
	res, err := s.db.ExecContext(ctx, query,
		sql.Named("id", messageID),
		sql.Named("room_id", roomID),
		sql.Named("user_name", author))
	if err != nil {
		return fmt.Errorf("ExecContext: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("RowsAffected: %w", err)
	}
	if affected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
