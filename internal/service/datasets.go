// datasets.go — сервис чтения реестра датасетов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
)

// DatasetDetail — датасет вместе с файлами и последним заданием валидации.
type DatasetDetail struct {
	Dataset   *model.Dataset
	Files     []*model.File
	LatestJob *model.ValidationJob // nil, если валидация ещё не запускалась
}

// DatasetService — сервис чтения датасетов и статуса валидации.
type DatasetService struct {
	datasetRepo repository.DatasetRepository
	fileRepo    repository.FileRepository
	jobRepo     repository.ValidationJobRepository
	logger      *slog.Logger
}

// NewDatasetService создаёт сервис датасетов.
func NewDatasetService(
	datasetRepo repository.DatasetRepository,
	fileRepo repository.FileRepository,
	jobRepo repository.ValidationJobRepository,
	logger *slog.Logger,
) *DatasetService {
	return &DatasetService{
		datasetRepo: datasetRepo,
		fileRepo:    fileRepo,
		jobRepo:     jobRepo,
		logger:      logger.With(slog.String("component", "dataset_service")),
	}
}

// Get возвращает датасет с файлами и последним заданием валидации.
func (s *DatasetService) Get(ctx context.Context, datasetID string) (*DatasetDetail, error) {
	dataset, err := s.datasetRepo.GetByID(ctx, datasetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение датасета: %w", err)
	}

	files, err := s.fileRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("получение файлов датасета: %w", err)
	}

	detail := &DatasetDetail{Dataset: dataset, Files: files}

	job, err := s.jobRepo.GetLatestByDataset(ctx, datasetID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("получение задания валидации: %w", err)
		}
	} else {
		detail.LatestJob = job
	}

	return detail, nil
}

// List возвращает датасеты с фильтрацией и пагинацией.
func (s *DatasetService) List(ctx context.Context, teamID *string, limit, offset int) ([]*model.Dataset, int, error) {
	filters := repository.DatasetFilters{TeamID: teamID}

	datasets, err := s.datasetRepo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("получение списка датасетов: %w", err)
	}
	total, err := s.datasetRepo.Count(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("подсчёт датасетов: %w", err)
	}
	return datasets, total, nil
}

// ValidationStatus возвращает последнее задание валидации датасета.
// Авторитетно только последнее задание: у датасета может быть история
// заданий, но статус датасета определяет самое свежее.
func (s *DatasetService) ValidationStatus(ctx context.Context, datasetID string) (*model.ValidationJob, error) {
	if _, err := s.datasetRepo.GetByID(ctx, datasetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение датасета: %w", err)
	}

	job, err := s.jobRepo.GetLatestByDataset(ctx, datasetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoValidation
		}
		return nil, fmt.Errorf("получение задания валидации: %w", err)
	}
	return job, nil
}
