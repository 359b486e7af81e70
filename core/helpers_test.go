package core

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

type StoreFixture struct {
	db       *SQLiteDB
	rooms    RoomStore
	messages MessageStore
	ctx      context.Context
	tearDown func()
	t        *testing.T
}

// NewStoreFixture opens a fresh file-backed database per test so fixtures
// never share state and writers serialize at the file level, as they do
// in production.
func NewStoreFixture(t *testing.T) *StoreFixture {
	ctx, cancel := context.WithCancel(context.Background())

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), "../migrations", &SQLiteDBOption{
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

	f := &StoreFixture{
		db:       db,
		rooms:    NewSQLiteRoomStore(db.DB),
		messages: NewSQLiteMessageStore(db.DB),
		ctx:      ctx,
		tearDown: func() {
			cancel()
			db.Close()
		},
		t: t,
	}

	return f
}

func seedRoom(f *StoreFixture, name, password string) *Room {
	room, created, err := f.rooms.ResolveOrCreateRoom(f.ctx, name, password)
	if err != nil {
		f.t.Fatal(err)
	}
	if !created {
		f.t.Fatalf("room %q already seeded", name)
	}
	return room
}

// seedMessageAt inserts a message row with an explicit timestamp,
// bypassing AppendMessage's wall clock.
func seedMessageAt(f *StoreFixture, roomID int64, author, body string, timestamp int64) int64 {
	row := f.db.QueryRowContext(f.ctx, `
	INSERT INTO messages (room_id, user_name, body, is_file, timestamp)
	VALUES (@room_id, @user_name, @body, 0, @timestamp) RETURNING id`,
		sql.Named("room_id", roomID),
		sql.Named("user_name", author),
		sql.Named("body", body),
		sql.Named("timestamp", timestamp))

	var id int64
	if err := row.Scan(&id); err != nil {
		f.t.Fatal(err)
	}
	return id
}
