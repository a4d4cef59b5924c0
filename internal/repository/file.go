package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
)

// FileRepository — интерфейс репозитория файлов датасетов.
type FileRepository interface {
	CreateBatch(ctx context.Context, files []*model.File) error
	ListByDataset(ctx context.Context, datasetID string) ([]*model.File, error)
	// MarkUploaded помечает все файлы датасета как загруженные
	// (декларативно, по факту триггера завершения).
	// Возвращает количество помеченных файлов.
	MarkUploaded(ctx context.Context, datasetID string) (int, error)
}

type fileRepository struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepository{db: db}
}

// CreateBatch добавляет записи файлов одним запросом.
func (r *fileRepository) CreateBatch(ctx context.Context, files []*model.File) error {
	if len(files) == 0 {
		return nil
	}

	query := `
		INSERT INTO files (file_id, dataset_id, filename, storage_key, size_bytes, content_type)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::text[], $5::bigint[], $6::text[])
	`
	fileIDs := make([]string, len(files))
	datasetIDs := make([]string, len(files))
	filenames := make([]string, len(files))
	storageKeys := make([]string, len(files))
	sizes := make([]int64, len(files))
	contentTypes := make([]string, len(files))
	for i, f := range files {
		fileIDs[i] = f.FileID
		datasetIDs[i] = f.DatasetID
		filenames[i] = f.Filename
		storageKeys[i] = f.StorageKey
		sizes[i] = f.SizeBytes
		contentTypes[i] = f.ContentType
	}

	_, err := r.db.Exec(ctx, query, fileIDs, datasetIDs, filenames, storageKeys, sizes, contentTypes)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("файлы датасета: %w", ErrConflict)
		}
		return fmt.Errorf("ошибка создания записей файлов: %w", err)
	}
	return nil
}

// ListByDataset возвращает файлы датасета в порядке создания.
func (r *fileRepository) ListByDataset(ctx context.Context, datasetID string) ([]*model.File, error) {
	query := `
		SELECT file_id, dataset_id, filename, storage_key, size_bytes,
		       content_type, is_uploaded, created_at
		FROM files
		WHERE dataset_id = $1
		ORDER BY created_at, file_id
	`
	rows, err := r.db.Query(ctx, query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения файлов датасета: %w", err)
	}
	defer rows.Close()

	files := make([]*model.File, 0)
	for rows.Next() {
		f := &model.File{}
		if err := rows.Scan(
			&f.FileID, &f.DatasetID, &f.Filename, &f.StorageKey,
			&f.SizeBytes, &f.ContentType, &f.IsUploaded, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// MarkUploaded помечает файлы датасета как загруженные.
func (r *fileRepository) MarkUploaded(ctx context.Context, datasetID string) (int, error) {
	query := `
		UPDATE files
		SET is_uploaded = TRUE
		WHERE dataset_id = $1 AND is_uploaded = FALSE
	`
	tag, err := r.db.Exec(ctx, query, datasetID)
	if err != nil {
		return 0, fmt.Errorf("ошибка пометки файлов датасета: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
