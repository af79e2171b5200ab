package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/database"
	"tasktrack/backend/internal/monitoring"
	"tasktrack/backend/internal/services"
	"tasktrack/backend/internal/worker"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := logrus.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server exited with error")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	gormLogLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		gormLogLevel = gormlogger.Info
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLogLevel,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Migrate(); err != nil {
		return err
	}

	taskCache := cache.NewTaskCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer taskCache.Close()

	if err := taskCache.Health(); err != nil {
		logger.WithError(err).Warn("Redis unreachable at startup, running with cold cache")
	}

	jobQueue := worker.NewJobQueue(taskCache.Client())

	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient:  taskCache.Client(),
		Logger:       logger,
		PollInterval: cfg.Worker.PollInterval,
		Queues:       cfg.Worker.Queues,
	})
	jobWorker.RegisterHandler(worker.JobTypeDueReminder, worker.DueReminderHandler(pool.DB, logger))
	jobWorker.RegisterHandler(worker.JobTypeCleanup, worker.CleanupHandler(pool.DB, logger))
	jobWorker.Start(cfg.Worker.Concurrency)
	defer jobWorker.Stop()

	stopCleanup := scheduleCleanup(jobQueue, logger)
	defer stopCleanup()

	taskService := services.NewReminderTaskService(
		services.NewCachedTaskService(services.NewTaskService(), taskCache),
		jobQueue,
		logger,
	)
	userService := services.NewCachedUserService(services.NewUserService(cfg.Auth.BCryptCost), taskCache)

	monitor := monitoring.NewMonitor()
	monitor.RegisterHealthCheck("database", func(ctx context.Context) error {
		return pool.Health()
	})
	monitor.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return taskCache.Health()
	})

	router := newRouter(cfg, pool.DB, logger, taskService, userService, monitor)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// scheduleCleanup enqueues a daily cleanup job. The worker may run on
// several instances; duplicate passes are harmless.
func scheduleCleanup(queue *worker.JobQueue, logger *logrus.Logger) func() {
	enqueue := func() {
		err := queue.Enqueue(worker.QueueCleanup, worker.JobTypeCleanup, map[string]interface{}{
			"retention_days": 30,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to enqueue cleanup job")
		}
	}
	enqueue()

	ticker := time.NewTicker(24 * time.Hour)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				enqueue()
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
