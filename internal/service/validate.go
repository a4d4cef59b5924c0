// validate.go — сервис валидации датасетов.
//
// Выполняется на worker-процессе по задачам из очереди. Сверяет записи
// файлов датасета с фактическим содержимым объектного хранилища и ведёт
// машину состояний задания: PENDING -> PROCESSING -> {COMPLETED | FAILED}.
// Сверка строго read-only по отношению к хранилищу.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/queue"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
	"github.com/bigkaa/godatastore/ingest-module/internal/storage"
)

// Prometheus метрики валидации
var (
	// validationRunsTotal — количество запусков валидации по исходу.
	validationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "im_validation_runs_total",
		Help: "Общее количество запусков валидации по исходу",
	}, []string{"status"})

	// validationFilesCheckedTotal — количество проверенных файлов.
	validationFilesCheckedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "im_validation_files_checked_total",
		Help: "Общее количество файлов, проверенных валидацией",
	})

	// validationDurationSeconds — длительность валидации датасета.
	validationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "im_validation_duration_seconds",
		Help:    "Длительность валидации датасета в секундах",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
	})
)

// ValidationService — сервис сверки датасетов с хранилищем.
type ValidationService struct {
	datasetRepo repository.DatasetRepository
	fileRepo    repository.FileRepository
	jobRepo     repository.ValidationJobRepository
	txRunner    *repository.TxRunner
	gateway     storage.Gateway
	logger      *slog.Logger
}

// NewValidationService создаёт сервис валидации.
func NewValidationService(
	datasetRepo repository.DatasetRepository,
	fileRepo repository.FileRepository,
	jobRepo repository.ValidationJobRepository,
	txRunner *repository.TxRunner,
	gateway storage.Gateway,
	logger *slog.Logger,
) *ValidationService {
	return &ValidationService{
		datasetRepo: datasetRepo,
		fileRepo:    fileRepo,
		jobRepo:     jobRepo,
		txRunner:    txRunner,
		gateway:     gateway,
		logger:      logger.With(slog.String("component", "validation_service")),
	}
}

// Run выполняет один запуск валидации датасета.
//
// Возврат ошибки отдаёт решение о повторе слою очереди (retry policy),
// поэтому ошибкой завершаются только неожиданные сбои. Отсутствие файлов
// в хранилище — нормальный терминальный исход FAILED, а не ошибка задачи.
func (s *ValidationService) Run(ctx context.Context, datasetID, jobID string) error {
	start := time.Now()

	job, err := s.resolveJob(ctx, datasetID, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		// Повторная доставка уже завершённого задания
		return nil
	}

	logs := []model.ValidationLogEntry{
		logEntry(model.LogLevelInfo, fmt.Sprintf("валидация датасета %s начата", datasetID)),
	}

	if _, err := s.datasetRepo.GetByID(ctx, datasetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Датасет удалён (например, очисткой) после постановки задачи.
			msg := fmt.Sprintf("датасет %s не найден", datasetID)
			logs = append(logs, logEntry(model.LogLevelError, msg))
			s.finishFailed(ctx, job, msg, logs)
			validationRunsTotal.WithLabelValues(model.ValidationStatusFailed).Inc()
			return nil
		}
		return s.failAndPropagate(ctx, job, logs, fmt.Errorf("получение датасета: %w", err))
	}

	files, err := s.fileRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return s.failAndPropagate(ctx, job, logs, fmt.Errorf("получение файлов датасета: %w", err))
	}

	logs = append(logs, logEntry(model.LogLevelInfo,
		fmt.Sprintf("файлов к проверке: %d", len(files))))

	// Сверка: для каждого файла запрашиваем наличие объекта в хранилище.
	missing := make([]string, 0)
	details := make([]model.FileValidationDetail, 0, len(files))
	var totalSize int64

	for _, file := range files {
		// Прерывание по контексту (soft time limit воркера) —
		// задание завершается как FAILED с частичным журналом.
		if ctxErr := ctx.Err(); ctxErr != nil {
			msg := fmt.Sprintf("валидация прервана: %v", ctxErr)
			logs = append(logs, logEntry(model.LogLevelError, msg))
			s.finishFailed(context.WithoutCancel(ctx), job, msg, logs)
			validationRunsTotal.WithLabelValues(model.ValidationStatusFailed).Inc()
			return fmt.Errorf("валидация датасета %s прервана: %w", datasetID, ctxErr)
		}

		info, err := s.gateway.Stat(ctx, file.StorageKey)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				missing = append(missing, file.Filename)
				logs = append(logs, logEntry(model.LogLevelError,
					fmt.Sprintf("файл %s отсутствует в хранилище (ключ %s)", file.Filename, file.StorageKey)))
				continue
			}
			return s.failAndPropagate(ctx, job, logs,
				fmt.Errorf("запрос объекта %s: %w", file.StorageKey, err))
		}

		validationFilesCheckedTotal.Inc()
		totalSize += info.Size
		details = append(details, model.FileValidationDetail{
			Filename:   file.Filename,
			StorageKey: file.StorageKey,
			Size:       info.Size,
			Status:     "valid",
		})
		logs = append(logs, logEntry(model.LogLevelInfo,
			fmt.Sprintf("файл %s подтверждён (%d байт)", file.Filename, info.Size)))
	}

	if len(missing) > 0 {
		msg := fmt.Sprintf("отсутствуют файлы в хранилище: %s", strings.Join(missing, ", "))
		logs = append(logs, logEntry(model.LogLevelError, msg))
		s.finishFailed(ctx, job, msg, logs)

		validationRunsTotal.WithLabelValues(model.ValidationStatusFailed).Inc()
		validationDurationSeconds.Observe(time.Since(start).Seconds())

		s.logger.Warn("Валидация завершена с отсутствующими файлами",
			slog.String("dataset_id", datasetID),
			slog.String("job_id", job.JobID),
			slog.Int("missing", len(missing)),
		)
		// Нормальный терминальный исход: повтор задачи не нужен.
		return nil
	}

	logs = append(logs, logEntry(model.LogLevelInfo,
		fmt.Sprintf("валидация завершена: %d файлов, %d байт", len(details), totalSize)))

	job.Status = model.ValidationStatusCompleted
	job.ErrorMessage = nil
	job.Logs = logs
	job.Results = &model.ValidationResult{
		TotalFiles:     len(files),
		ValidatedFiles: len(details),
		TotalSizeBytes: totalSize,
		Files:          details,
	}

	// Терминальный переход задания и обновление датасета — одна
	// транзакция: COMPLETED задание не может наблюдаться рядом
	// с устаревшим датасетом.
	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := repository.NewValidationJobRepository(tx).Finish(ctx, job); err != nil {
			return err
		}
		return repository.NewDatasetRepository(tx).UpdateValidated(ctx, datasetID, len(details), totalSize)
	})
	if err != nil {
		return fmt.Errorf("фиксация результата валидации: %w", err)
	}

	validationRunsTotal.WithLabelValues(model.ValidationStatusCompleted).Inc()
	validationDurationSeconds.Observe(time.Since(start).Seconds())

	s.logger.Info("Валидация завершена успешно",
		slog.String("dataset_id", datasetID),
		slog.String("job_id", job.JobID),
		slog.Int("validated_files", len(details)),
		slog.Int64("total_size_bytes", totalSize),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// resolveJob находит задание и переводит его в PROCESSING.
// Возвращает (nil, nil), если задание уже COMPLETED — повторную доставку
// завершённой задачи нужно молча пропустить. Задание в статусе FAILED
// перезапускается: сюда мы попадаем только по retry policy очереди.
func (s *ValidationService) resolveJob(ctx context.Context, datasetID, jobID string) (*model.ValidationJob, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("получение задания валидации: %w", err)
		}
		// Защитный случай: задача дошла до воркера, а запись задания
		// отсутствует. Создаём её сразу в PROCESSING.
		job = &model.ValidationJob{
			JobID:     jobID,
			DatasetID: datasetID,
			Status:    model.ValidationStatusProcessing,
			TaskID:    queue.ValidationTaskID(datasetID, jobID),
		}
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("создание задания валидации: %w", err)
		}
		if err := s.jobRepo.MarkProcessing(ctx, jobID); err != nil {
			return nil, err
		}
		s.logger.Warn("Задание валидации отсутствовало — создано заново",
			slog.String("dataset_id", datasetID),
			slog.String("job_id", jobID),
		)
		return job, nil
	}

	if job.Status == model.ValidationStatusCompleted {
		s.logger.Info("Задание уже завершено — повторная доставка пропущена",
			slog.String("dataset_id", datasetID),
			slog.String("job_id", jobID),
		)
		return nil, nil
	}

	if err := s.jobRepo.MarkProcessing(ctx, jobID); err != nil {
		return nil, err
	}
	job.Status = model.ValidationStatusProcessing
	return job, nil
}

// failAndPropagate фиксирует задание как FAILED с деталью сбоя и возвращает
// исходную ошибку слою очереди — его retry policy решает о повторе.
func (s *ValidationService) failAndPropagate(ctx context.Context, job *model.ValidationJob, logs []model.ValidationLogEntry, cause error) error {
	msg := cause.Error()
	logs = append(logs, logEntry(model.LogLevelError, msg))
	s.finishFailed(context.WithoutCancel(ctx), job, msg, logs)
	validationRunsTotal.WithLabelValues(model.ValidationStatusFailed).Inc()
	return cause
}

// finishFailed записывает терминальное состояние FAILED.
// Датасет не модифицируется: uploads_complete фиксирует закрытие сессии
// загрузки, а не успех валидации.
func (s *ValidationService) finishFailed(ctx context.Context, job *model.ValidationJob, msg string, logs []model.ValidationLogEntry) {
	job.Status = model.ValidationStatusFailed
	job.ErrorMessage = &msg
	job.Logs = logs
	job.Results = nil

	if err := s.jobRepo.Finish(ctx, job); err != nil {
		s.logger.Error("Не удалось записать терминальное состояние задания",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
	}
}

// logEntry создаёт запись журнала валидации.
func logEntry(level, message string) model.ValidationLogEntry {
	return model.ValidationLogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	}
}
