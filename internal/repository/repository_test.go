package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/godatastore/ingest-module/internal/config"
	"github.com/bigkaa/godatastore/ingest-module/internal/database"
	"github.com/bigkaa/godatastore/ingest-module/internal/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool и функцию очистки.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("datastore_test"),
		postgres.WithUsername("datastore"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	os.Setenv("IM_DB_HOST", host)
	os.Setenv("IM_DB_PORT", port.Port())
	os.Setenv("IM_DB_NAME", "datastore_test")
	os.Setenv("IM_DB_USER", "datastore")
	os.Setenv("IM_DB_PASSWORD", "test-password")
	os.Setenv("IM_DB_SSL_MODE", "disable")
	os.Setenv("IM_REDIS_ADDR", "localhost:6379")
	os.Setenv("IM_S3_ENDPOINT", "localhost:9000")
	os.Setenv("IM_S3_ACCESS_KEY", "test")
	os.Setenv("IM_S3_SECRET_KEY", "test")
	os.Setenv("IM_JWT_JWKS_URL", "http://localhost:8080/realms/test/protocol/openid-connect/certs")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Применяем миграции
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	// Подключаемся
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// createTestTeam — вспомогательная функция: команда нужна как FK для датасетов.
func createTestTeam(t *testing.T, pool *pgxpool.Pool) *model.Team {
	t.Helper()
	team := &model.Team{
		TeamID:      uuid.New().String(),
		Name:        "team-" + uuid.New().String()[:8],
		Description: "тестовая команда",
	}
	if err := NewTeamRepository(pool).Create(context.Background(), team); err != nil {
		t.Fatalf("Создание команды: %v", err)
	}
	return team
}

func createTestDataset(t *testing.T, pool *pgxpool.Pool, teamID string, fileCount int) *model.Dataset {
	t.Helper()
	d := &model.Dataset{
		DatasetID:   uuid.New().String(),
		TeamID:      teamID,
		Name:        "dataset-" + uuid.New().String()[:8],
		Description: "тестовый датасет",
		FileCount:   fileCount,
	}
	if err := NewDatasetRepository(pool).Create(context.Background(), d); err != nil {
		t.Fatalf("Создание датасета: %v", err)
	}
	return d
}

// --- Тесты TeamRepository ---

func TestTeamCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewTeamRepository(pool)

	teamID := uuid.New().String()
	team := &model.Team{
		TeamID:      teamID,
		Name:        "ml-research",
		Description: "команда ML-исследований",
	}

	// Create
	if err := repo.Create(ctx, team); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if team.CreatedAt.IsZero() {
		t.Error("CreatedAt не установлен")
	}

	// Дубликат имени -> ErrConflict
	dup := &model.Team{TeamID: uuid.New().String(), Name: "ml-research"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Errorf("Дубликат имени: ожидали ErrConflict, получили: %v", err)
	}

	// GetByID
	got, err := repo.GetByID(ctx, teamID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Name != "ml-research" {
		t.Errorf("Name = %q, хотели %q", got.Name, "ml-research")
	}

	// GetByID несуществующей команды
	if _, err := repo.GetByID(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Ожидали ErrNotFound, получили: %v", err)
	}

	// List + Count
	list, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() вернул %d записей, хотели 1", len(list))
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() ошибка: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, хотели 1", count)
	}
}

// --- Тесты DatasetRepository ---

func TestDatasetCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewDatasetRepository(pool)
	team := createTestTeam(t, pool)

	d := createTestDataset(t, pool, team.TeamID, 3)
	if d.UploadsComplete {
		t.Error("Новый датасет не должен быть uploads_complete")
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("CreatedAt/UpdatedAt не установлены")
	}

	// GetByID
	got, err := repo.GetByID(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.FileCount != 3 {
		t.Errorf("FileCount = %d, хотели 3", got.FileCount)
	}

	// List с фильтром по команде
	list, err := repo.List(ctx, DatasetFilters{TeamID: &team.TeamID}, 10, 0)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() вернул %d записей, хотели 1", len(list))
	}

	// List с фильтром по чужой команде
	otherTeam := uuid.New().String()
	empty, err := repo.List(ctx, DatasetFilters{TeamID: &otherTeam}, 10, 0)
	if err != nil {
		t.Fatalf("List() с чужой командой ошибка: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List() вернул %d записей, хотели 0", len(empty))
	}

	// Count
	count, err := repo.Count(ctx, DatasetFilters{})
	if err != nil {
		t.Fatalf("Count() ошибка: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, хотели 1", count)
	}

	// UpdateValidated
	if err := repo.UpdateValidated(ctx, d.DatasetID, 2, 4096); err != nil {
		t.Fatalf("UpdateValidated() ошибка: %v", err)
	}
	got2, _ := repo.GetByID(ctx, d.DatasetID)
	if got2.FileCount != 2 || got2.TotalSizeBytes != 4096 {
		t.Errorf("После UpdateValidated: file_count=%d, total_size=%d", got2.FileCount, got2.TotalSizeBytes)
	}

	// Delete
	if err := repo.Delete(ctx, d.DatasetID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if _, err := repo.GetByID(ctx, d.DatasetID); !errors.Is(err, ErrNotFound) {
		t.Errorf("После Delete ожидали ErrNotFound, получили: %v", err)
	}
}

func TestDatasetMarkUploadsComplete(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewDatasetRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 1)

	// Первый вызов — переход выполнен
	won, err := repo.MarkUploadsComplete(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("MarkUploadsComplete() ошибка: %v", err)
	}
	if !won {
		t.Error("Первый вызов должен выполнить переход")
	}

	// Повторный вызов — переход уже был
	won2, err := repo.MarkUploadsComplete(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("MarkUploadsComplete() повторный ошибка: %v", err)
	}
	if won2 {
		t.Error("Повторный вызов не должен выполнять переход")
	}

	got, _ := repo.GetByID(ctx, d.DatasetID)
	if !got.UploadsComplete {
		t.Error("uploads_complete должен быть TRUE")
	}
}

func TestDatasetListCreatedBefore(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewDatasetRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 1)

	// Граница в будущем — датасет попадает в выборку
	old, err := repo.ListCreatedBefore(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListCreatedBefore() ошибка: %v", err)
	}
	if len(old) != 1 || old[0].DatasetID != d.DatasetID {
		t.Errorf("ListCreatedBefore вернул %d записей, хотели 1", len(old))
	}

	// Граница в прошлом — выборка пустая
	none, err := repo.ListCreatedBefore(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListCreatedBefore() ошибка: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListCreatedBefore вернул %d записей, хотели 0", len(none))
	}
}

// --- Тесты FileRepository ---

func TestFileBatchAndMarkUploaded(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewFileRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 2)

	files := []*model.File{
		{
			FileID: uuid.New().String(), DatasetID: d.DatasetID,
			Filename:   "train.csv",
			StorageKey: "datasets/" + d.DatasetID + "/" + uuid.New().String() + "/train.csv",
			SizeBytes:  1024, ContentType: "text/csv",
		},
		{
			FileID: uuid.New().String(), DatasetID: d.DatasetID,
			Filename:   "labels.json",
			StorageKey: "datasets/" + d.DatasetID + "/" + uuid.New().String() + "/labels.json",
			SizeBytes:  512, ContentType: "application/json",
		},
	}

	// CreateBatch
	if err := repo.CreateBatch(ctx, files); err != nil {
		t.Fatalf("CreateBatch() ошибка: %v", err)
	}

	// Пустой батч — no-op
	if err := repo.CreateBatch(ctx, nil); err != nil {
		t.Fatalf("CreateBatch(nil) ошибка: %v", err)
	}

	// Дубликат storage_key -> ErrConflict
	dup := []*model.File{{
		FileID: uuid.New().String(), DatasetID: d.DatasetID,
		Filename: "train.csv", StorageKey: files[0].StorageKey,
		SizeBytes: 1, ContentType: "text/csv",
	}}
	if err := repo.CreateBatch(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Errorf("Дубликат storage_key: ожидали ErrConflict, получили: %v", err)
	}

	// ListByDataset
	list, err := repo.ListByDataset(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("ListByDataset() ошибка: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByDataset() вернул %d файлов, хотели 2", len(list))
	}
	for _, f := range list {
		if f.IsUploaded {
			t.Errorf("Файл %s не должен быть is_uploaded сразу после создания", f.Filename)
		}
	}

	// MarkUploaded
	n, err := repo.MarkUploaded(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("MarkUploaded() ошибка: %v", err)
	}
	if n != 2 {
		t.Errorf("MarkUploaded() = %d, хотели 2", n)
	}

	// Повторная пометка — 0 строк
	n2, _ := repo.MarkUploaded(ctx, d.DatasetID)
	if n2 != 0 {
		t.Errorf("Повторный MarkUploaded() = %d, хотели 0", n2)
	}
}

// --- Тесты ValidationJobRepository ---

func TestValidationJobLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewValidationJobRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 1)

	jobID := uuid.New().String()
	taskID := "validate-" + d.DatasetID + "-" + jobID
	job := &model.ValidationJob{
		JobID:     jobID,
		DatasetID: d.DatasetID,
		Status:    model.ValidationStatusPending,
		TaskID:    taskID,
	}

	// Create
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt не установлен")
	}

	// GetByID
	got, err := repo.GetByID(ctx, jobID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Status != model.ValidationStatusPending {
		t.Errorf("Status = %q, хотели pending", got.Status)
	}
	if got.StartedAt != nil || got.CompletedAt != nil {
		t.Error("StartedAt/CompletedAt должны быть nil для нового задания")
	}

	// GetByDatasetAndTask
	got2, err := repo.GetByDatasetAndTask(ctx, d.DatasetID, taskID)
	if err != nil {
		t.Fatalf("GetByDatasetAndTask() ошибка: %v", err)
	}
	if got2.JobID != jobID {
		t.Errorf("JobID = %q, хотели %q", got2.JobID, jobID)
	}

	// MarkProcessing
	if err := repo.MarkProcessing(ctx, jobID); err != nil {
		t.Fatalf("MarkProcessing() ошибка: %v", err)
	}
	got3, _ := repo.GetByID(ctx, jobID)
	if got3.Status != model.ValidationStatusProcessing || got3.StartedAt == nil {
		t.Errorf("После MarkProcessing: status=%q, started_at=%v", got3.Status, got3.StartedAt)
	}

	// Finish с журналом и результатами
	job.Status = model.ValidationStatusCompleted
	job.Logs = []model.ValidationLogEntry{
		{Timestamp: time.Now().UTC(), Level: model.LogLevelInfo, Message: "валидация начата"},
		{Timestamp: time.Now().UTC(), Level: model.LogLevelInfo, Message: "валидация завершена"},
	}
	job.Results = &model.ValidationResult{
		TotalFiles:     1,
		ValidatedFiles: 1,
		TotalSizeBytes: 1024,
		Files: []model.FileValidationDetail{
			{Filename: "train.csv", StorageKey: "datasets/x/y/train.csv", Size: 1024, Status: "valid"},
		},
	}
	if err := repo.Finish(ctx, job); err != nil {
		t.Fatalf("Finish() ошибка: %v", err)
	}
	if job.CompletedAt == nil {
		t.Error("CompletedAt не установлен после Finish")
	}

	final, _ := repo.GetByID(ctx, jobID)
	if final.Status != model.ValidationStatusCompleted {
		t.Errorf("Status = %q, хотели completed", final.Status)
	}
	if len(final.Logs) != 2 {
		t.Errorf("Logs: %d записей, хотели 2", len(final.Logs))
	}
	if final.Results == nil || final.Results.ValidatedFiles != 1 {
		t.Errorf("Results = %+v", final.Results)
	}

	// GetLatestByDataset — берёт последнее задание
	job2 := &model.ValidationJob{
		JobID:     uuid.New().String(),
		DatasetID: d.DatasetID,
		Status:    model.ValidationStatusPending,
		TaskID:    "validate-" + d.DatasetID + "-second",
	}
	if err := repo.Create(ctx, job2); err != nil {
		t.Fatalf("Create() второго задания ошибка: %v", err)
	}
	latest, err := repo.GetLatestByDataset(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("GetLatestByDataset() ошибка: %v", err)
	}
	if latest.JobID != job2.JobID {
		t.Errorf("GetLatestByDataset вернул %q, хотели %q", latest.JobID, job2.JobID)
	}
}

func TestValidationJobFailed(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewValidationJobRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 1)

	job := &model.ValidationJob{
		JobID:     uuid.New().String(),
		DatasetID: d.DatasetID,
		Status:    model.ValidationStatusPending,
		TaskID:    "validate-" + d.DatasetID + "-fail",
	}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}

	msg := "отсутствуют файлы в хранилище: 2 из 3"
	job.Status = model.ValidationStatusFailed
	job.ErrorMessage = &msg
	job.Logs = []model.ValidationLogEntry{
		{Timestamp: time.Now().UTC(), Level: model.LogLevelError, Message: msg},
	}
	if err := repo.Finish(ctx, job); err != nil {
		t.Fatalf("Finish() ошибка: %v", err)
	}

	got, _ := repo.GetByID(ctx, job.JobID)
	if got.Status != model.ValidationStatusFailed {
		t.Errorf("Status = %q, хотели failed", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != msg {
		t.Errorf("ErrorMessage = %v, хотели %q", got.ErrorMessage, msg)
	}
	if got.Results != nil {
		t.Errorf("Results = %+v, хотели nil", got.Results)
	}
}

// Каскадное удаление: файлы и задания исчезают вместе с датасетом.
func TestDatasetCascadeDelete(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	dsRepo := NewDatasetRepository(pool)
	fileRepo := NewFileRepository(pool)
	jobRepo := NewValidationJobRepository(pool)
	team := createTestTeam(t, pool)
	d := createTestDataset(t, pool, team.TeamID, 1)

	files := []*model.File{{
		FileID: uuid.New().String(), DatasetID: d.DatasetID,
		Filename:   "data.bin",
		StorageKey: "datasets/" + d.DatasetID + "/" + uuid.New().String() + "/data.bin",
		SizeBytes:  10, ContentType: "application/octet-stream",
	}}
	if err := fileRepo.CreateBatch(ctx, files); err != nil {
		t.Fatalf("CreateBatch() ошибка: %v", err)
	}
	job := &model.ValidationJob{
		JobID: uuid.New().String(), DatasetID: d.DatasetID,
		Status: model.ValidationStatusPending, TaskID: "validate-cascade",
	}
	if err := jobRepo.Create(ctx, job); err != nil {
		t.Fatalf("Create() задания ошибка: %v", err)
	}

	if err := dsRepo.Delete(ctx, d.DatasetID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}

	left, err := fileRepo.ListByDataset(ctx, d.DatasetID)
	if err != nil {
		t.Fatalf("ListByDataset() ошибка: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("После удаления датасета осталось %d файлов", len(left))
	}
	if _, err := jobRepo.GetByID(ctx, job.JobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("После удаления датасета ожидали ErrNotFound для задания, получили: %v", err)
	}
}
