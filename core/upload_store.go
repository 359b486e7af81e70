package core

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// UploadStore couples a FileStore with a MessageStore so that a file
// upload leaves either a file plus its message row, or nothing at all.
type UploadStore struct {
	files    FileStore
	messages MessageStore
}

func NewUploadStore(files FileStore, messages MessageStore) *UploadStore {
	return &UploadStore{files: files, messages: messages}
}

// StoreUpload validates the original filename's extension against the
// allow-list, writes the file under a generated name, then records a
// message row with the file flag set and the stored name as its body.
// If the row insert fails the just-written file is removed, so a failed
// upload leaves no orphaned file or row.
func (s *UploadStore) StoreUpload(ctx context.Context, roomID int64, author, originalName string, r io.Reader) (*Message, error) {
	ext, ok := UploadExtension(originalName)
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	storedName := uuid.New().String() + ext
	if err := s.files.Save(storedName, r); err != nil {
		return nil, fmt.Errorf("Save: %w", err)
	}

	message, err := s.messages.AppendMessage(ctx, MessageCreateInput{
		RoomID: roomID,
		Author: author,
		Body:   storedName,
		IsFile: true,
	})
	if err != nil {
		if rmErr := s.files.Remove(storedName); rmErr != nil {
			return nil, fmt.Errorf("AppendMessage: %w (remove file: %v)", err, rmErr)
		}
		return nil, fmt.Errorf("AppendMessage: %w", err)
	}

	return message, nil
}
