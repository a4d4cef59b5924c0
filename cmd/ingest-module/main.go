// ingest-module — сервис приёма и валидации датасетов DataStore.
//
// Один бинарный файл обслуживает три режима запуска (IM_ROLE):
//   - api    — только HTTP API (приём загрузок, чтение статусов)
//   - worker — только обработка задач очереди (валидация, очистка)
//   - all    — оба режима в одном процессе (по умолчанию)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/godatastore/ingest-module/internal/api/handlers"
	"github.com/bigkaa/godatastore/ingest-module/internal/api/middleware"
	"github.com/bigkaa/godatastore/ingest-module/internal/config"
	"github.com/bigkaa/godatastore/ingest-module/internal/database"
	"github.com/bigkaa/godatastore/ingest-module/internal/queue"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
	"github.com/bigkaa/godatastore/ingest-module/internal/server"
	"github.com/bigkaa/godatastore/ingest-module/internal/service"
	"github.com/bigkaa/godatastore/ingest-module/internal/storage"
	"github.com/bigkaa/godatastore/ingest-module/internal/worker"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Запуск ingest-module",
		slog.String("version", config.Version),
		slog.String("role", cfg.Role),
		slog.Int("port", cfg.Port),
	)

	ctx := context.Background()

	// 3. Миграции схемы БД
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка выполнения миграций", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к базе данных", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// Адаптер *sql.DB поверх pgxpool для dephealth: проверка соединения
	// идёт через тот же пул, что и рабочие запросы, поэтому исчерпание
	// пула видно в health-метриках.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Объектное хранилище
	gateway, err := storage.NewMinioGateway(cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к объектному хранилищу", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := gateway.EnsureBucket(ctx); err != nil {
		logger.Error("Ошибка создания bucket", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Очередь задач
	queueClient := queue.NewClient(cfg, logger)
	defer queueClient.Close()

	// 7. Репозитории и сервисы
	teamRepo := repository.NewTeamRepository(pool)
	datasetRepo := repository.NewDatasetRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	jobRepo := repository.NewValidationJobRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	teamSvc := service.NewTeamService(teamRepo, logger)
	uploadSvc := service.NewUploadService(teamRepo, txRunner, gateway, logger)
	completionSvc := service.NewCompletionService(txRunner, queueClient, logger)
	datasetSvc := service.NewDatasetService(datasetRepo, fileRepo, jobRepo, logger)
	validationSvc := service.NewValidationService(datasetRepo, fileRepo, jobRepo, txRunner, gateway, logger)
	retentionSvc := service.NewRetentionService(datasetRepo, fileRepo, gateway, cfg.RetentionDays, logger)

	// 8. Мониторинг зависимостей (dephealth)
	s3Scheme := "http"
	if cfg.S3UseSSL {
		s3Scheme = "https"
	}
	s3URL := fmt.Sprintf("%s://%s", s3Scheme, cfg.S3Endpoint)

	dephealthSvc, err := service.NewDephealthService(
		"ingest-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.JWTJWKSURL,
		s3URL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		// Мониторинг зависимостей не критичен для работы сервиса
		logger.Warn("Ошибка инициализации мониторинга зависимостей", slog.String("error", err.Error()))
	} else {
		if err := dephealthSvc.Start(ctx); err != nil {
			logger.Warn("Ошибка запуска мониторинга зависимостей", slog.String("error", err.Error()))
		} else {
			defer dephealthSvc.Stop()
		}
	}

	// 9. Worker: обработка задач валидации и планировщик очистки
	if cfg.RunsWorker() {
		wrk := worker.New(cfg, validationSvc, retentionSvc, logger)
		if err := wrk.Start(cfg); err != nil {
			logger.Error("Ошибка запуска worker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer wrk.Stop()
	}

	// 10. HTTP API
	if cfg.RunsAPI() {
		pgChecker := database.NewReadinessChecker(pool)
		redisChecker := queue.NewReadinessChecker(cfg)
		defer redisChecker.Close()
		s3Checker := storage.NewReadinessChecker(gateway)
		var kcChecker handlers.ReadinessChecker
		kc, err := middleware.NewKeycloakReadinessChecker(cfg.JWTJWKSURL, cfg.CACertPath, cfg.JWKSClientTimeout)
		if err != nil {
			// Readiness без проверки Keycloak лучше, чем отказ запуска
			logger.Warn("Ошибка инициализации проверки Keycloak", slog.String("error", err.Error()))
		} else {
			kcChecker = kc
		}

		healthHandler := handlers.NewHealthHandler(pgChecker, redisChecker, s3Checker, kcChecker)

		apiHandler := handlers.NewAPIHandler(
			healthHandler,
			teamSvc,
			uploadSvc,
			completionSvc,
			datasetSvc,
			cfg.UploadURLTTL,
			logger,
		)

		jwtAuth, err := middleware.NewJWTAuth(
			cfg.JWTJWKSURL,
			cfg.CACertPath,
			cfg.JWTIssuer,
			cfg.RoleAdminGroups,
			cfg.RoleReadonlyGroups,
			cfg.JWKSClientTimeout,
			cfg.JWKSRefreshInterval,
			cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			logger.Error("Ошибка инициализации JWT аутентификации", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer jwtAuth.Close()

		srv := server.New(cfg, logger, apiHandler, jwtAuth)
		if err := srv.Run(); err != nil {
			logger.Error("Ошибка HTTP-сервера", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Режим worker без API: ждём сигнала завершения.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
}
