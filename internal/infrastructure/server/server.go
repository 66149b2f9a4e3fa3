package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	connectcors "connectrpc.com/cors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	adapter "github.com/eslsoft/lingocast/internal/adapter/connectrpc"
	"github.com/eslsoft/lingocast/internal/infrastructure/config"
	"github.com/eslsoft/lingocast/internal/usecase"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

// Server represents the application server
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *logrus.Logger
	progress   usecase.ProgressUsecase
}

// NewServer mounts the connect services behind CORS and h2c.
func NewServer(
	cfg *config.Config,
	logger *logrus.Logger,
	content contentv1.ContentServiceHandler,
	bookmarks bookmarkv1.BookmarkServiceHandler,
	lessons lessonv1.LessonServiceHandler,
	progress usecase.ProgressUsecase,
) *Server {
	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr(),
			Handler:           NewHandler(cfg, logger, content, bookmarks, lessons),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:   logger,
		progress: progress,
	}
}

// NewHandler builds the HTTP handler serving every service.
func NewHandler(
	cfg *config.Config,
	logger logrus.FieldLogger,
	content contentv1.ContentServiceHandler,
	bookmarks bookmarkv1.BookmarkServiceHandler,
	lessons lessonv1.LessonServiceHandler,
) http.Handler {
	opts := connect.WithInterceptors(Logger(logger))

	mux := http.NewServeMux()
	mux.Handle(contentv1.NewContentServiceHandler(content, opts))
	mux.Handle(bookmarkv1.NewBookmarkServiceHandler(bookmarks, opts))
	mux.Handle(lessonv1.NewLessonServiceHandler(lessons, opts))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return h2c.NewHandler(withCORS(cfg.Server.CORSOrigins, mux), &http2.Server{})
}

func withCORS(origins []string, h http.Handler) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: connectcors.AllowedMethods(),
		AllowedHeaders: append(connectcors.AllowedHeaders(), adapter.HeaderUserID, "X-Request-Id"),
		ExposedHeaders: connectcors.ExposedHeaders(),
		MaxAge:         7200,
	}).Handler(h)
}

// StartHTTP serves until Shutdown is called.
func (s *Server) StartHTTP() error {
	s.logger.Infof("HTTP server starting on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and drains pending progress writes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Errorf("Failed to shutdown HTTP server: %v", err)
	}
	if s.progress != nil {
		s.progress.Close()
	}

	s.logger.Info("Server shutdown complete")
	return err
}
