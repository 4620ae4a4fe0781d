package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/infrastructure/cache"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase/certification"
	"jobmatch/internal/usecase/recommendation"
	"jobmatch/migrations"

	"go.uber.org/zap"
)

// Container owns the process-wide dependencies shared by all requests.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Redis *cache.Redis
	ML    *mlclient.Client
	JWT   jwt.Service

	Recommendations *recommendation.Orchestrator
	Certifications  *certification.Service
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	connectTimeout := cfg.Database.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		runner := migration.Runner{Source: migrationSource(cfg.Database.MigrationsDir), Logger: log}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Redis is only dialled when score caching is on.
	var rdb *cache.Redis
	var scoreCache recommendation.ScoreCache
	if cfg.Recommend.CacheTTL > 0 {
		rdb = cache.NewRedis(cfg.Redis, log)
		scoreCache = rdb
	}

	ml := mlclient.NewClient(cfg.ML, log)
	profiles := repository.NewPostgresProfileRepository(db)
	jobs := repository.NewPostgresJobRepository(db)

	return &Container{
		Config:          cfg,
		Logger:          log,
		DB:              db,
		Redis:           rdb,
		ML:              ml,
		JWT:             jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
		Recommendations: recommendation.NewOrchestrator(profiles, jobs, ml, scoreCache, cfg.Recommend, log),
		Certifications:  certification.NewService(profiles, ml, log),
	}, nil
}

func migrationSource(dir string) fs.FS {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
