//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	adapterrepo "github.com/eslsoft/lingodrill/internal/adapter/repository"
	"github.com/eslsoft/lingodrill/internal/adapter/rest"
	"github.com/eslsoft/lingodrill/internal/infrastructure/config"
	"github.com/eslsoft/lingodrill/internal/infrastructure/database"
	"github.com/eslsoft/lingodrill/internal/infrastructure/server"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	adapterrepo.NewUserRepository,
	adapterrepo.NewCourseRepository,
	adapterrepo.NewModuleRepository,
	adapterrepo.NewSentenceRepository,
	adapterrepo.NewErrorRecordRepository,
	adapterrepo.NewVocabWordRepository,
	adapterrepo.NewModuleResultRepository,
)

var usecaseSet = wire.NewSet(
	provideLLMClient,
	provideBatchCache,
	providePracticeUsecase,
	provideVocabUsecase,
	usecase.NewUserUsecase,
	usecase.NewCourseUsecase,
	usecase.NewReviewUsecase,
	usecase.NewResultUsecase,
)

var handlerSet = wire.NewSet(
	rest.NewUserHandler,
	rest.NewCourseHandler,
	rest.NewPracticeHandler,
	rest.NewReviewHandler,
	rest.NewVocabHandler,
	rest.NewResultHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	provideServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		handlerSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
