package app

import (
	"github.com/eslsoft/lingodrill/internal/adapter/rest"
	"github.com/eslsoft/lingodrill/internal/batch"
	"github.com/eslsoft/lingodrill/internal/infrastructure/config"
	"github.com/eslsoft/lingodrill/internal/infrastructure/server"
	"github.com/eslsoft/lingodrill/internal/llm"
	"github.com/eslsoft/lingodrill/internal/repository"
	"github.com/eslsoft/lingodrill/internal/usecase"
	"github.com/sirupsen/logrus"
)

func provideLLMClient(cfg *config.Config) (llm.Client, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return llm.NewClient(cfg.LLM)
}

func provideBatchCache() *batch.Cache {
	return batch.NewCache()
}

func providePracticeUsecase(
	cfg *config.Config,
	modules repository.ModuleRepository,
	sentences repository.SentenceRepository,
	records repository.ErrorRecordRepository,
	client llm.Client,
	cache *batch.Cache,
) usecase.PracticeUsecase {
	return usecase.NewPracticeUsecase(modules, sentences, records, client, cache, cfg.Batch.TopicSize)
}

func provideVocabUsecase(
	cfg *config.Config,
	words repository.VocabWordRepository,
	client llm.Client,
	cache *batch.Cache,
) usecase.VocabUsecase {
	return usecase.NewVocabUsecase(words, client, cache, cfg.Batch.VocabSize)
}

func provideServer(
	cfg *config.Config,
	logger *logrus.Logger,
	users *rest.UserHandler,
	courses *rest.CourseHandler,
	practice *rest.PracticeHandler,
	review *rest.ReviewHandler,
	vocab *rest.VocabHandler,
	results *rest.ResultHandler,
) *server.Server {
	return server.NewServer(cfg, logger, users, courses, practice, review, vocab, results)
}
