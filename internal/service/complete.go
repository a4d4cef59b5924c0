// complete.go — координатор завершения загрузки.
//
// Идемпотентная граница пайплайна: сколько бы раз и как бы конкурентно
// ни вызывался триггер завершения для одного датасета, ровно один вызов
// выполняет переход uploads_complete FALSE -> TRUE и создаёт ровно одно
// задание валидации. Остальные вызовы возвращают уже существующее задание.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/queue"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
)

// Статусы результата завершения загрузки.
const (
	CompletionQueued           = "queued"
	CompletionAlreadyCompleted = "already_completed"
)

// CompletionResult — результат триггера завершения загрузки.
type CompletionResult struct {
	DatasetID       string
	ValidationJobID string
	Status          string
}

// CompletionService — координатор завершения загрузки датасета.
type CompletionService struct {
	txRunner *repository.TxRunner
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

// NewCompletionService создаёт координатор завершения.
func NewCompletionService(
	txRunner *repository.TxRunner,
	enqueuer queue.Enqueuer,
	logger *slog.Logger,
) *CompletionService {
	return &CompletionService{
		txRunner: txRunner,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("component", "completion_service")),
	}
}

// Complete обрабатывает триггер «загрузка завершена».
//
// Вся проверка и переход выполняются в одной транзакции. Гонка
// конкурентных вызовов сериализуется условным UPDATE по строке датасета:
// победитель помечает файлы, создаёт задание PENDING и ставит задачу
// в очередь до коммита; проигравшие вызовы читают задание победителя.
// Отказ постановки в очередь откатывает весь переход, так что повторный
// вызов чисто проходит тот же путь.
func (s *CompletionService) Complete(ctx context.Context, datasetID string) (*CompletionResult, error) {
	result := &CompletionResult{DatasetID: datasetID}

	err := s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		dsRepo := repository.NewDatasetRepository(tx)
		fileRepo := repository.NewFileRepository(tx)
		jobRepo := repository.NewValidationJobRepository(tx)

		// Датасет должен существовать
		if _, err := dsRepo.GetByID(ctx, datasetID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: датасет %s не найден", ErrNotFound, datasetID)
			}
			return fmt.Errorf("получение датасета: %w", err)
		}

		won, err := dsRepo.MarkUploadsComplete(ctx, datasetID)
		if err != nil {
			return err
		}

		if !won {
			// Переход уже выполнен — возвращаем задание победителя.
			job, err := jobRepo.GetLatestByDataset(ctx, datasetID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Не должно случаться: переход и задание создаются атомарно.
					return fmt.Errorf("датасет %s завершён, но задание валидации отсутствует", datasetID)
				}
				return fmt.Errorf("получение задания валидации: %w", err)
			}
			result.ValidationJobID = job.JobID
			result.Status = CompletionAlreadyCompleted
			return nil
		}

		// Помечаем файлы как загруженные (декларативно — фиксация
		// закрытия сессии загрузки, а не проверка наличия в хранилище).
		marked, err := fileRepo.MarkUploaded(ctx, datasetID)
		if err != nil {
			return err
		}

		jobID := uuid.New().String()
		job := &model.ValidationJob{
			JobID:     jobID,
			DatasetID: datasetID,
			Status:    model.ValidationStatusPending,
			TaskID:    queue.ValidationTaskID(datasetID, jobID),
		}
		if err := jobRepo.Create(ctx, job); err != nil {
			return err
		}

		// Постановка в очередь — до коммита: отказ брокера откатывает
		// весь переход вместе с заданием.
		if err := s.enqueuer.EnqueueValidation(ctx, datasetID, jobID); err != nil {
			return fmt.Errorf("постановка задачи валидации: %w", err)
		}

		s.logger.Info("Загрузка датасета завершена",
			slog.String("dataset_id", datasetID),
			slog.String("job_id", jobID),
			slog.Int("files_marked", marked),
		)

		result.ValidationJobID = jobID
		result.Status = CompletionQueued
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
