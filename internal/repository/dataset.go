package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
)

// DatasetFilters — фильтры для списка датасетов.
type DatasetFilters struct {
	TeamID *string
}

// DatasetRepository — интерфейс репозитория датасетов.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *model.Dataset) error
	GetByID(ctx context.Context, datasetID string) (*model.Dataset, error)
	List(ctx context.Context, filters DatasetFilters, limit, offset int) ([]*model.Dataset, error)
	Count(ctx context.Context, filters DatasetFilters) (int, error)
	// MarkUploadsComplete атомарно переводит датасет в состояние
	// uploads_complete = TRUE. Возвращает true, если именно этот вызов
	// выполнил переход (условие uploads_complete = FALSE сработало),
	// и false, если переход уже был выполнен ранее.
	MarkUploadsComplete(ctx context.Context, datasetID string) (bool, error)
	UpdateValidated(ctx context.Context, datasetID string, fileCount int, totalSizeBytes int64) error
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Dataset, error)
	Delete(ctx context.Context, datasetID string) error
}

type datasetRepository struct {
	db DBTX
}

// NewDatasetRepository создаёт репозиторий датасетов.
func NewDatasetRepository(db DBTX) DatasetRepository {
	return &datasetRepository{db: db}
}

// Create добавляет новый датасет.
func (r *datasetRepository) Create(ctx context.Context, dataset *model.Dataset) error {
	query := `
		INSERT INTO datasets (dataset_id, team_id, name, description, file_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING uploads_complete, total_size_bytes, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		dataset.DatasetID, dataset.TeamID, dataset.Name, dataset.Description, dataset.FileCount).
		Scan(&dataset.UploadsComplete, &dataset.TotalSizeBytes, &dataset.CreatedAt, &dataset.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("датасет %s: %w", dataset.DatasetID, ErrConflict)
		}
		return fmt.Errorf("ошибка создания датасета: %w", err)
	}
	return nil
}

// GetByID возвращает датасет по идентификатору.
func (r *datasetRepository) GetByID(ctx context.Context, datasetID string) (*model.Dataset, error) {
	query := `
		SELECT dataset_id, team_id, name, description, file_count,
		       uploads_complete, total_size_bytes, created_at, updated_at
		FROM datasets
		WHERE dataset_id = $1
	`
	d := &model.Dataset{}
	err := r.db.QueryRow(ctx, query, datasetID).Scan(
		&d.DatasetID, &d.TeamID, &d.Name, &d.Description, &d.FileCount,
		&d.UploadsComplete, &d.TotalSizeBytes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("датасет %s: %w", datasetID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения датасета: %w", err)
	}
	return d, nil
}

// List возвращает датасеты с фильтрацией и пагинацией,
// отсортированные от новых к старым.
func (r *datasetRepository) List(ctx context.Context, filters DatasetFilters, limit, offset int) ([]*model.Dataset, error) {
	query := `
		SELECT dataset_id, team_id, name, description, file_count,
		       uploads_complete, total_size_bytes, created_at, updated_at
		FROM datasets
		WHERE ($1::uuid IS NULL OR team_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filters.TeamID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка датасетов: %w", err)
	}
	defer rows.Close()

	datasets := make([]*model.Dataset, 0)
	for rows.Next() {
		d := &model.Dataset{}
		if err := rows.Scan(
			&d.DatasetID, &d.TeamID, &d.Name, &d.Description, &d.FileCount,
			&d.UploadsComplete, &d.TotalSizeBytes, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка чтения датасета: %w", err)
		}
		datasets = append(datasets, d)
	}
	return datasets, rows.Err()
}

// Count возвращает количество датасетов под фильтрами.
func (r *datasetRepository) Count(ctx context.Context, filters DatasetFilters) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM datasets
		WHERE ($1::uuid IS NULL OR team_id = $1)
	`
	var count int
	if err := r.db.QueryRow(ctx, query, filters.TeamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта датасетов: %w", err)
	}
	return count, nil
}

// MarkUploadsComplete — условный переход uploads_complete FALSE -> TRUE.
// Конкурирующие вызовы сериализуются блокировкой строки: победитель
// получает rows affected = 1, остальные — 0.
func (r *datasetRepository) MarkUploadsComplete(ctx context.Context, datasetID string) (bool, error) {
	query := `
		UPDATE datasets
		SET uploads_complete = TRUE, updated_at = NOW()
		WHERE dataset_id = $1 AND uploads_complete = FALSE
	`
	tag, err := r.db.Exec(ctx, query, datasetID)
	if err != nil {
		return false, fmt.Errorf("ошибка завершения загрузки датасета: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateValidated обновляет фактические счётчики датасета по итогам валидации.
func (r *datasetRepository) UpdateValidated(ctx context.Context, datasetID string, fileCount int, totalSizeBytes int64) error {
	query := `
		UPDATE datasets
		SET file_count = $2, total_size_bytes = $3, updated_at = NOW()
		WHERE dataset_id = $1
	`
	tag, err := r.db.Exec(ctx, query, datasetID, fileCount, totalSizeBytes)
	if err != nil {
		return fmt.Errorf("ошибка обновления датасета: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("датасет %s: %w", datasetID, ErrNotFound)
	}
	return nil
}

// ListCreatedBefore возвращает датасеты, созданные раньше cutoff.
// Используется процессом очистки по сроку хранения.
func (r *datasetRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Dataset, error) {
	query := `
		SELECT dataset_id, team_id, name, description, file_count,
		       uploads_complete, total_size_bytes, created_at, updated_at
		FROM datasets
		WHERE created_at < $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска устаревших датасетов: %w", err)
	}
	defer rows.Close()

	datasets := make([]*model.Dataset, 0)
	for rows.Next() {
		d := &model.Dataset{}
		if err := rows.Scan(
			&d.DatasetID, &d.TeamID, &d.Name, &d.Description, &d.FileCount,
			&d.UploadsComplete, &d.TotalSizeBytes, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка чтения датасета: %w", err)
		}
		datasets = append(datasets, d)
	}
	return datasets, rows.Err()
}

// Delete удаляет датасет. Файлы и задания валидации удаляются каскадно.
func (r *datasetRepository) Delete(ctx context.Context, datasetID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM datasets WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления датасета: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("датасет %s: %w", datasetID, ErrNotFound)
	}
	return nil
}
