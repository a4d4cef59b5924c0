package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
)

// ValidationJobRepository — интерфейс репозитория заданий валидации.
type ValidationJobRepository interface {
	Create(ctx context.Context, job *model.ValidationJob) error
	GetByID(ctx context.Context, jobID string) (*model.ValidationJob, error)
	GetLatestByDataset(ctx context.Context, datasetID string) (*model.ValidationJob, error)
	GetByDatasetAndTask(ctx context.Context, datasetID, taskID string) (*model.ValidationJob, error)
	MarkProcessing(ctx context.Context, jobID string) error
	// Finish записывает терминальное состояние задания: статус,
	// сообщение об ошибке, журнал и результаты валидации.
	Finish(ctx context.Context, job *model.ValidationJob) error
}

type validationJobRepository struct {
	db DBTX
}

// NewValidationJobRepository создаёт репозиторий заданий валидации.
func NewValidationJobRepository(db DBTX) ValidationJobRepository {
	return &validationJobRepository{db: db}
}

const validationJobColumns = `
	job_id, dataset_id, status, task_id, error_message,
	validation_logs, validation_results, created_at, started_at, completed_at
`

// Create добавляет новое задание валидации.
func (r *validationJobRepository) Create(ctx context.Context, job *model.ValidationJob) error {
	query := `
		INSERT INTO validation_jobs (job_id, dataset_id, status, task_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, job.JobID, job.DatasetID, job.Status, job.TaskID).
		Scan(&job.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("задание валидации %s: %w", job.JobID, ErrConflict)
		}
		return fmt.Errorf("ошибка создания задания валидации: %w", err)
	}
	return nil
}

func (r *validationJobRepository) scanJob(row pgx.Row) (*model.ValidationJob, error) {
	j := &model.ValidationJob{}
	err := row.Scan(
		&j.JobID, &j.DatasetID, &j.Status, &j.TaskID, &j.ErrorMessage,
		&j.Logs, &j.Results, &j.CreatedAt, &j.StartedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// GetByID возвращает задание валидации по идентификатору.
func (r *validationJobRepository) GetByID(ctx context.Context, jobID string) (*model.ValidationJob, error) {
	query := `SELECT ` + validationJobColumns + ` FROM validation_jobs WHERE job_id = $1`
	job, err := r.scanJob(r.db.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("задание валидации %s: %w", jobID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения задания валидации: %w", err)
	}
	return job, nil
}

// GetLatestByDataset возвращает последнее задание валидации датасета.
func (r *validationJobRepository) GetLatestByDataset(ctx context.Context, datasetID string) (*model.ValidationJob, error) {
	query := `
		SELECT ` + validationJobColumns + `
		FROM validation_jobs
		WHERE dataset_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	job, err := r.scanJob(r.db.QueryRow(ctx, query, datasetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("задание валидации датасета %s: %w", datasetID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения задания валидации: %w", err)
	}
	return job, nil
}

// GetByDatasetAndTask возвращает задание по датасету и идентификатору задачи очереди.
func (r *validationJobRepository) GetByDatasetAndTask(ctx context.Context, datasetID, taskID string) (*model.ValidationJob, error) {
	query := `
		SELECT ` + validationJobColumns + `
		FROM validation_jobs
		WHERE dataset_id = $1 AND task_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	job, err := r.scanJob(r.db.QueryRow(ctx, query, datasetID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("задание валидации датасета %s (task %s): %w", datasetID, taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения задания валидации: %w", err)
	}
	return job, nil
}

// MarkProcessing переводит задание в статус processing и фиксирует время старта.
func (r *validationJobRepository) MarkProcessing(ctx context.Context, jobID string) error {
	query := `
		UPDATE validation_jobs
		SET status = $2, started_at = NOW()
		WHERE job_id = $1
	`
	tag, err := r.db.Exec(ctx, query, jobID, model.ValidationStatusProcessing)
	if err != nil {
		return fmt.Errorf("ошибка перевода задания в processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("задание валидации %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// Finish записывает терминальное состояние задания.
func (r *validationJobRepository) Finish(ctx context.Context, job *model.ValidationJob) error {
	query := `
		UPDATE validation_jobs
		SET status = $2, error_message = $3, validation_logs = $4,
		    validation_results = $5, completed_at = NOW()
		WHERE job_id = $1
		RETURNING completed_at
	`
	err := r.db.QueryRow(ctx, query,
		job.JobID, job.Status, job.ErrorMessage, job.Logs, job.Results).
		Scan(&job.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("задание валидации %s: %w", job.JobID, ErrNotFound)
		}
		return fmt.Errorf("ошибка завершения задания валидации: %w", err)
	}
	return nil
}
