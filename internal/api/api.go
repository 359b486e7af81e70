package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/putto11262002/chatroom/core"
)

type ApiConfig struct {
	// AllowedOrigins is the explicit CORS allow-list. Arbitrary origins
	// are never reflected.
	AllowedOrigins []string
	// UploadDir is the flat directory uploaded files are written to.
	UploadDir string
}

type Api struct {
	db     *sql.DB
	mux    *ApiMux
	config ApiConfig
}

func NewApi(db *sql.DB, config ApiConfig) (*Api, error) {
	api := &Api{
		db:     db,
		mux:    NewApiRouter(),
		config: config,
	}
	if err := api.mountHandlers(); err != nil {
		return nil, err
	}
	return api, nil
}

func (a *Api) Mux() http.Handler {
	return a.mux
}

func (a *Api) mountHandlers() error {
	roomStore := core.NewSQLiteRoomStore(a.db)
	messageStore := core.NewSQLiteMessageStore(a.db)

	fileStore, err := core.NewLocalFileStore(a.config.UploadDir)
	if err != nil {
		return fmt.Errorf("NewLocalFileStore: %w", err)
	}
	uploadStore := core.NewUploadStore(fileStore, messageStore)

	roomHandler := NewRoomHandler(roomStore)
	messageHandler := NewMessageHandler(roomStore, messageStore)
	uploadHandler := NewUploadHandler(roomStore, uploadStore, fileStore)
	healthHandler := NewHealthHandler(a.db)

	a.mux.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	a.mux.Post("/check_room", roomHandler.CheckRoomHandler)
	a.mux.Post("/create_room", roomHandler.CreateRoomHandler)
	a.mux.Get("/messages", messageHandler.ListMessagesHandler)
	a.mux.Post("/send_message", messageHandler.SendMessageHandler)
	a.mux.Post("/delete_message", messageHandler.DeleteMessageHandler)
	a.mux.Post("/upload", uploadHandler.UploadHandler)
	a.mux.Get("/uploads/{filename}", uploadHandler.ServeUploadHandler)
	a.mux.Get("/health", healthHandler.HealthHandler)

	return nil
}
