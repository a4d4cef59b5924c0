// upload.go — сервис начала загрузки датасета.
//
// Создаёт датасет и записи файлов, выписывает presigned URL для каждого
// объявленного файла. Клиент загружает файлы напрямую в объектное
// хранилище — содержимое никогда не проходит через API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"
	"github.com/bigkaa/godatastore/ingest-module/internal/repository"
	"github.com/bigkaa/godatastore/ingest-module/internal/storage"
)

// FileDeclaration — объявление одного файла в запросе начала загрузки.
type FileDeclaration struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// UploadStartRequest — запрос начала загрузки датасета.
type UploadStartRequest struct {
	TeamID      string
	Name        string
	Description string
	Files       []FileDeclaration
}

// FileUpload — запись файла вместе с presigned URL для загрузки.
type FileUpload struct {
	File      *model.File
	UploadURL *storage.UploadURL
}

// UploadSession — результат начала загрузки.
type UploadSession struct {
	Dataset *model.Dataset
	Files   []*FileUpload
}

// UploadService — сервис начала загрузки датасетов.
type UploadService struct {
	teamRepo repository.TeamRepository
	txRunner *repository.TxRunner
	gateway  storage.Gateway
	logger   *slog.Logger
}

// NewUploadService создаёт сервис начала загрузки.
func NewUploadService(
	teamRepo repository.TeamRepository,
	txRunner *repository.TxRunner,
	gateway storage.Gateway,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		teamRepo: teamRepo,
		txRunner: txRunner,
		gateway:  gateway,
		logger:   logger.With(slog.String("component", "upload_service")),
	}
}

// Start начинает сессию загрузки: создаёт датасет, записи файлов
// и выписывает presigned URL для каждого файла.
//
// Операция намеренно не идемпотентна — каждый вызов создаёт новый датасет.
// Presigned URL выписываются до записи в БД: при отказе хранилища
// в БД не остаётся датасета, в который невозможно загрузить файлы.
func (s *UploadService) Start(ctx context.Context, req *UploadStartRequest) (*UploadSession, error) {
	if err := validateUploadRequest(req); err != nil {
		return nil, err
	}

	// Команда должна существовать
	if _, err := s.teamRepo.GetByID(ctx, req.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: команда %s не найдена", ErrNotFound, req.TeamID)
		}
		return nil, fmt.Errorf("проверка команды: %w", err)
	}

	datasetID := uuid.New().String()
	dataset := &model.Dataset{
		DatasetID:   datasetID,
		TeamID:      req.TeamID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		FileCount:   len(req.Files),
	}

	// Сначала выписываем все presigned URL.
	// Отказ хранилища на любом файле — отказ всей операции.
	uploads := make([]*FileUpload, 0, len(req.Files))
	files := make([]*model.File, 0, len(req.Files))
	for _, decl := range req.Files {
		file := &model.File{
			FileID:      uuid.New().String(),
			DatasetID:   datasetID,
			Filename:    decl.Filename,
			StorageKey:  fmt.Sprintf("datasets/%s/%s/%s", datasetID, uuid.New().String(), decl.Filename),
			SizeBytes:   decl.SizeBytes,
			ContentType: decl.ContentType,
		}

		uploadURL, err := s.gateway.PresignUpload(ctx, file.StorageKey, file.ContentType)
		if err != nil {
			s.logger.Error("Ошибка выписки presigned URL",
				slog.String("dataset_id", datasetID),
				slog.String("filename", decl.Filename),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err) //nolint:errorlint // намеренный двойной wrap
		}

		files = append(files, file)
		uploads = append(uploads, &FileUpload{File: file, UploadURL: uploadURL})
	}

	// Датасет и файлы создаются в одной транзакции:
	// частичный отказ не оставляет осиротевших записей.
	err := s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := repository.NewDatasetRepository(tx).Create(ctx, dataset); err != nil {
			return fmt.Errorf("создание датасета: %w", err)
		}
		if err := repository.NewFileRepository(tx).CreateBatch(ctx, files); err != nil {
			return fmt.Errorf("создание записей файлов: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Сессия загрузки начата",
		slog.String("dataset_id", datasetID),
		slog.String("team_id", req.TeamID),
		slog.Int("files", len(files)),
	)

	return &UploadSession{Dataset: dataset, Files: uploads}, nil
}

// validateUploadRequest проверяет запрос начала загрузки.
func validateUploadRequest(req *UploadStartRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: имя датасета не может быть пустым", ErrValidation)
	}
	if len(req.Files) == 0 {
		return fmt.Errorf("%w: список файлов не может быть пустым", ErrValidation)
	}
	for i, decl := range req.Files {
		if strings.TrimSpace(decl.Filename) == "" {
			return fmt.Errorf("%w: файл #%d — имя не может быть пустым", ErrValidation, i+1)
		}
		if strings.ContainsAny(decl.Filename, "/\\") {
			return fmt.Errorf("%w: файл '%s' — имя не может содержать разделители пути", ErrValidation, decl.Filename)
		}
		if decl.SizeBytes < 0 {
			return fmt.Errorf("%w: файл '%s' — размер не может быть отрицательным", ErrValidation, decl.Filename)
		}
	}
	return nil
}
