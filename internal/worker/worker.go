// Пакет worker — процесс обработки фоновых задач.
//
// Поднимает asynq-сервер над очередью Redis: задачи валидации датасетов
// и периодическую очистку по сроку хранения (планировщик asynq).
// Конфигурация очереди (лимиты времени, конкурентность) передаётся
// явно из config, а не через глобальное состояние.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bigkaa/godatastore/ingest-module/internal/config"
	"github.com/bigkaa/godatastore/ingest-module/internal/queue"
	"github.com/bigkaa/godatastore/ingest-module/internal/service"
)

// Worker — процесс обработки задач очереди.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux

	validationSvc *service.ValidationService
	retentionSvc  *service.RetentionService
	softTimeLimit time.Duration
	logger        *slog.Logger
}

// New создаёт worker с обработчиками задач и планировщиком очистки.
func New(
	cfg *config.Config,
	validationSvc *service.ValidationService,
	retentionSvc *service.RetentionService,
	logger *slog.Logger,
) *Worker {
	wlog := logger.With(slog.String("component", "worker"))

	srv := asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Logger:      &slogAdapter{logger: wlog},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			wlog.Error("Ошибка обработки задачи",
				slog.String("type", task.Type()),
				slog.String("error", err.Error()),
			)
		}),
	})

	scheduler := asynq.NewScheduler(queue.RedisOpt(cfg), &asynq.SchedulerOpts{
		Logger: &slogAdapter{logger: wlog.With(slog.String("component", "scheduler"))},
	})

	w := &Worker{
		srv:           srv,
		scheduler:     scheduler,
		validationSvc: validationSvc,
		retentionSvc:  retentionSvc,
		softTimeLimit: cfg.TaskSoftTimeLimit,
		logger:        wlog,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeValidateDataset, w.handleValidate)
	mux.HandleFunc(queue.TypeCleanupDatasets, w.handleCleanup)
	w.mux = mux

	return w
}

// Start запускает обработку задач и планировщик очистки.
// Неблокирующий: обработчики работают в горутинах asynq.
func (w *Worker) Start(cfg *config.Config) error {
	if _, err := w.scheduler.Register(cfg.RetentionSchedule,
		asynq.NewTask(queue.TypeCleanupDatasets, nil),
		asynq.MaxRetry(0),
	); err != nil {
		return fmt.Errorf("регистрация задачи очистки: %w", err)
	}

	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("запуск планировщика: %w", err)
	}

	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("запуск обработчика задач: %w", err)
	}

	w.logger.Info("Worker запущен",
		slog.Int("concurrency", cfg.WorkerConcurrency),
		slog.String("retention_schedule", cfg.RetentionSchedule),
	)
	return nil
}

// Stop останавливает обработку: сначала перестаём брать новые задачи,
// затем дожидаемся завершения текущих.
func (w *Worker) Stop() {
	w.scheduler.Shutdown()
	w.srv.Stop()
	w.srv.Shutdown()
	w.logger.Info("Worker остановлен")
}

// handleValidate — обработчик задачи валидации датасета.
// Жёсткий лимит времени задаёт asynq.Timeout при постановке; мягкий —
// контекст с дедлайном здесь: валидация прерывается с частичным журналом.
func (w *Worker) handleValidate(ctx context.Context, task *asynq.Task) error {
	var payload queue.ValidatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Некорректная нагрузка не станет корректной при повторе
		return fmt.Errorf("разбор задачи валидации: %v: %w", err, asynq.SkipRetry)
	}

	w.logger.Info("Задача валидации получена",
		slog.String("dataset_id", payload.DatasetID),
		slog.String("job_id", payload.JobID),
	)

	ctx, cancel := context.WithTimeout(ctx, w.softTimeLimit)
	defer cancel()

	return w.validationSvc.Run(ctx, payload.DatasetID, payload.JobID)
}

// handleCleanup — обработчик периодической очистки по сроку хранения.
func (w *Worker) handleCleanup(ctx context.Context, _ *asynq.Task) error {
	_, err := w.retentionSvc.RunOnce(ctx)
	return err
}

// slogAdapter — адаптер slog под интерфейс asynq.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(args ...interface{}) { a.logger.Debug(fmt.Sprint(args...)) }
func (a *slogAdapter) Info(args ...interface{})  { a.logger.Info(fmt.Sprint(args...)) }
func (a *slogAdapter) Warn(args ...interface{})  { a.logger.Warn(fmt.Sprint(args...)) }
func (a *slogAdapter) Error(args ...interface{}) { a.logger.Error(fmt.Sprint(args...)) }
func (a *slogAdapter) Fatal(args ...interface{}) { a.logger.Error(fmt.Sprint(args...)) }
