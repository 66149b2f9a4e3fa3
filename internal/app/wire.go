//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	adapter "github.com/eslsoft/lingocast/internal/adapter/connectrpc"
	"github.com/eslsoft/lingocast/internal/adapter/repository"
	"github.com/eslsoft/lingocast/internal/infrastructure/config"
	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/internal/infrastructure/server"
	"github.com/eslsoft/lingocast/internal/usecase"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

var configSet = wire.NewSet(
	config.Load,
)

var loggerSet = wire.NewSet(
	server.NewLogger,
	server.FieldLogger,
)

var databaseSet = wire.NewSet(
	database.NewDriver,
)

var repositorySet = wire.NewSet(
	repository.NewContentRepository,
	repository.NewLessonRepository,
	repository.NewProgressRepository,
	repository.NewQuestionBookmarkRepository,
	repository.NewSubtitleBookmarkRepository,
	repository.NewLyricBookmarkRepository,
	repository.NewReadingBookmarkRepository,
	wire.Struct(new(usecase.BookmarkRepositories), "*"),
)

var usecaseSet = wire.NewSet(
	ProgressOptions,
	usecase.NewProgressUsecase,
	usecase.NewContentUsecase,
	usecase.NewLessonUsecase,
	usecase.NewBookmarkUsecase,
)

var serviceSet = wire.NewSet(
	adapter.NewContentServiceServer,
	adapter.NewBookmarkServiceServer,
	adapter.NewLessonServiceServer,
	wire.Bind(new(contentv1.ContentServiceHandler), new(*adapter.ContentServiceServer)),
	wire.Bind(new(bookmarkv1.BookmarkServiceHandler), new(*adapter.BookmarkServiceServer)),
	wire.Bind(new(lessonv1.LessonServiceHandler), new(*adapter.LessonServiceServer)),
)

var serverSet = wire.NewSet(
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		loggerSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
