package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/config"
	"github.com/mamadbah2/acai-manager/internal/repository/file"
	"github.com/mamadbah2/acai-manager/internal/repository/mongodb"
	"github.com/mamadbah2/acai-manager/internal/repository/redis"
	"github.com/mamadbah2/acai-manager/internal/service/persistence"
)

type closer interface {
	Close(ctx context.Context) error
}

// storage bundles the snapshot backend with the optional report archive.
type storage struct {
	backend persistence.Backend
	archive mongodb.ReportRepository
	closers []closer
	logger  *zap.Logger
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	s := &storage{logger: logger}

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.MongoDB.URI != "" {
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, err
		}
		mongoRepo = repo
		s.archive = repo
		s.closers = append(s.closers, repo)
		logger.Info("connected to mongodb", zap.String("db", cfg.MongoDB.DBName))
	}

	switch cfg.Storage.Backend {
	case config.StorageMongoDB:
		if mongoRepo == nil {
			s.Close(ctx)
			return nil, fmt.Errorf("storage backend %q requires MONGODB_URI", cfg.Storage.Backend)
		}
		s.backend = mongoRepo
	case config.StorageRedis:
		repo, err := redis.NewRepository(ctx, cfg.Redis)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.backend = repo
		s.closers = append(s.closers, repo)
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	default:
		repo, err := file.NewRepository(cfg.Storage.DataDir, logger.Named("repo.file"))
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.backend = repo
		s.closers = append(s.closers, repo)
	}

	return s, nil
}

// Close releases every connection opened by openStorage.
func (s *storage) Close(ctx context.Context) {
	for _, c := range s.closers {
		if err := c.Close(ctx); err != nil {
			s.logger.Warn("failed to close storage", zap.Error(err))
		}
	}
}
