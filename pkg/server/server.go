package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/putto11262002/chatroom/pkg/logger"
)

type Server struct {
	*http.Server
	Logger logger.Logger
	// CleanUpFuncs is a list of functions that will be called when the server has successfully shutdown.
	CleanUpFuncs []func(ctx context.Context)
}

// Start serves until ctx is cancelled, then shuts down gracefully with a
// 20 second deadline before forcing exit.
func (s *Server) Start(ctx context.Context) {

	if s.Logger == nil {
		s.Logger = logger.NewDefault()
	}

	s.Server.BaseContext = func(_ net.Listener) context.Context {
		return ctx
	}

	done := make(chan struct{})

	go func() {
		<-ctx.Done()

		s.Logger.Infof("server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				s.Logger.Errorf("graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := s.Server.Shutdown(shutdownCtx); err != nil {
			s.Logger.Errorf("server shutdown: %v", err)
			os.Exit(1)
		}

		for _, cf := range s.CleanUpFuncs {
			cf(shutdownCtx)
		}

		close(done)
	}()

	s.Logger.Infof("server started at %s", s.Server.Addr)

	err := s.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.Logger.Errorf("server exit: %v", err)
		os.Exit(1)
	}

	<-done
}
