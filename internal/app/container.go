package app

import (
	entsql "entgo.io/ent/dialect/sql"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/infrastructure/config"
	"github.com/eslsoft/lingocast/internal/infrastructure/server"
	"github.com/eslsoft/lingocast/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Driver  *entsql.Driver
	Server  *server.Server
	Content usecase.ContentUsecase
	Lessons usecase.LessonUsecase
}

// ProgressOptions sizes the progress worker pool from config.
func ProgressOptions(cfg *config.Config) usecase.ProgressOptions {
	return usecase.ProgressOptions{
		Workers:   cfg.Progress.Workers,
		QueueSize: cfg.Progress.QueueSize,
		Timeout:   cfg.Progress.Timeout,
	}
}
