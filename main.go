package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/putto11262002/chatroom/core"
	"github.com/putto11262002/chatroom/internal/api"
	"github.com/putto11262002/chatroom/pkg/logger"
	"github.com/putto11262002/chatroom/pkg/server"
)

func main() {

	log := logger.NewDefault()

	config, err := core.LoadConfig()
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		log.Errorf("invalid config:\n%s", core.FormatValidationErrors(err))
		os.Exit(1)
	}

	serverCtx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	db, err := core.NewSQLiteDB(config.SQLite.File, config.SQLite.Migrations, &core.SQLiteDBOption{
		Mode:          "rwc",
		JournalMode:   "WAL",
		ForeignKeys:   true,
		BusyTimeoutMS: 5000,
	})
	if err != nil {
		log.Errorf("open db: %v", err)
		os.Exit(1)
	}

	if err := db.Migrate(); err != nil {
		log.Errorf("migrate up: %v", err)
		os.Exit(1)
	}

	_api, err := api.NewApi(db.DB, api.ApiConfig{
		AllowedOrigins: config.AllowedOrigins,
		UploadDir:      config.Upload.Dir,
	})
	if err != nil {
		log.Errorf("mount api: %v", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Mount("/api", _api.Mux())

	srv := server.Server{
		Server: &http.Server{
			Handler: r,
			Addr:    fmt.Sprintf("%s:%d", config.Hostname, config.Port),
		},
		Logger: log,
		CleanUpFuncs: []func(ctx context.Context){
			func(ctx context.Context) {
				db.Close()
			},
		},
	}

	srv.Start(serverCtx)
}
