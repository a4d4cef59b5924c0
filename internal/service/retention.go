// retention.go — сервис очистки датасетов по сроку хранения.
//
// Находит датасеты старше окна хранения, удаляет их объекты из
// хранилища батчем и затем удаляет строку датасета (файлы и задания
// валидации удаляются каскадно). Отказ на одном датасете не прерывает
// обработку остальных.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
	"github.com/bigkaa/godatastore/ingest-module/internal/storage"
)

// Prometheus метрики очистки
var (
	// retentionRunsTotal — количество запусков очистки.
	retentionRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "im_retention_runs_total",
		Help: "Общее количество запусков очистки по сроку хранения",
	})

	// retentionDatasetsDeletedTotal — количество удалённых датасетов.
	retentionDatasetsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "im_retention_datasets_deleted_total",
		Help: "Общее количество датасетов, удалённых очисткой",
	})

	// retentionBytesDeletedTotal — объём удалённых данных (по заявленным размерам).
	retentionBytesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "im_retention_bytes_deleted_total",
		Help: "Общий объём данных, удалённых очисткой, в байтах",
	})

	// retentionDurationSeconds — длительность запуска очистки.
	retentionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "im_retention_duration_seconds",
		Help:    "Длительность запуска очистки в секундах",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// RetentionResult — результат одного запуска очистки.
type RetentionResult struct {
	// Attempted — количество датасетов старше окна хранения
	Attempted int
	// Deleted — количество успешно удалённых датасетов
	Deleted int
	// FilesDeleted — количество удалённых записей файлов
	FilesDeleted int
	// BytesDeleted — объём удалённых данных по заявленным размерам
	BytesDeleted int64
	// Errors — количество датасетов, удаление которых не удалось
	Errors int
	// Duration — длительность выполнения
	Duration time.Duration
}

// RetentionService — сервис очистки датасетов по сроку хранения.
type RetentionService struct {
	datasetRepo   repository.DatasetRepository
	fileRepo      repository.FileRepository
	gateway       storage.Gateway
	retentionDays int
	logger        *slog.Logger

	mu sync.Mutex // защита от параллельного запуска RunOnce
}

// NewRetentionService создаёт сервис очистки.
func NewRetentionService(
	datasetRepo repository.DatasetRepository,
	fileRepo repository.FileRepository,
	gateway storage.Gateway,
	retentionDays int,
	logger *slog.Logger,
) *RetentionService {
	return &RetentionService{
		datasetRepo:   datasetRepo,
		fileRepo:      fileRepo,
		gateway:       gateway,
		retentionDays: retentionDays,
		logger:        logger.With(slog.String("component", "retention")),
	}
}

// RunOnce выполняет один цикл очистки.
// Потокобезопасен: использует mutex для защиты от параллельного запуска.
func (s *RetentionService) RunOnce(ctx context.Context) (*RetentionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &RetentionResult{}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	s.logger.Debug("Очистка начата",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", s.retentionDays),
	)

	datasets, err := s.datasetRepo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	result.Attempted = len(datasets)

	for _, dataset := range datasets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			break
		}

		files, err := s.fileRepo.ListByDataset(ctx, dataset.DatasetID)
		if err != nil {
			s.logger.Error("Очистка: ошибка получения файлов датасета",
				slog.String("dataset_id", dataset.DatasetID),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		keys := make([]string, len(files))
		var bytes int64
		for i, f := range files {
			keys[i] = f.StorageKey
			bytes += f.SizeBytes
		}

		// Сначала объекты, затем строка датасета: запись в БД живёт,
		// пока объекты могли остаться в хранилище.
		if err := s.gateway.DeleteMany(ctx, keys); err != nil {
			s.logger.Error("Очистка: ошибка удаления объектов",
				slog.String("dataset_id", dataset.DatasetID),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		if err := s.datasetRepo.Delete(ctx, dataset.DatasetID); err != nil {
			s.logger.Error("Очистка: ошибка удаления датасета",
				slog.String("dataset_id", dataset.DatasetID),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		result.Deleted++
		result.FilesDeleted += len(files)
		result.BytesDeleted += bytes

		s.logger.Debug("Очистка: датасет удалён",
			slog.String("dataset_id", dataset.DatasetID),
			slog.Int("files", len(files)),
			slog.Int64("bytes", bytes),
		)
	}

	result.Duration = time.Since(start)

	retentionRunsTotal.Inc()
	retentionDatasetsDeletedTotal.Add(float64(result.Deleted))
	retentionBytesDeletedTotal.Add(float64(result.BytesDeleted))
	retentionDurationSeconds.Observe(result.Duration.Seconds())

	s.logger.Info("Очистка завершена",
		slog.Int("attempted", result.Attempted),
		slog.Int("deleted", result.Deleted),
		slog.Int("files_deleted", result.FilesDeleted),
		slog.Int64("bytes_deleted", result.BytesDeleted),
		slog.Int("errors", result.Errors),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}
