// Пакет queue — постановка фоновых задач в очередь Redis через asynq.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/bigkaa/godatastore/ingest-module/internal/config"
)

// Типы задач очереди.
const (
	// TypeValidateDataset — асинхронная валидация датасета.
	TypeValidateDataset = "validate_dataset"
	// TypeCleanupDatasets — периодическая очистка датасетов по сроку хранения.
	TypeCleanupDatasets = "cleanup_datasets"
)

// ValidatePayload — полезная нагрузка задачи валидации.
type ValidatePayload struct {
	DatasetID string `json:"dataset_id"`
	JobID     string `json:"job_id"`
}

// ValidationTaskID строит детерминированный идентификатор задачи валидации.
// Совпадающий task id в очереди отклоняется брокером, что защищает
// от повторной постановки одного и того же задания.
func ValidationTaskID(datasetID, jobID string) string {
	return fmt.Sprintf("validate-%s-%s", datasetID, jobID)
}

// Enqueuer — интерфейс постановки задач валидации.
type Enqueuer interface {
	// EnqueueValidation ставит задачу валидации в очередь.
	// Повторная постановка с тем же task id не является ошибкой.
	EnqueueValidation(ctx context.Context, datasetID, jobID string) error
}

// Client — клиент очереди задач поверх asynq.
type Client struct {
	client   *asynq.Client
	timeout  time.Duration
	maxRetry int
	logger   *slog.Logger
}

// RedisOpt строит параметры подключения к Redis из конфигурации.
// Используется клиентом, воркером и планировщиком.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewClient создаёт клиента очереди задач.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		client:   asynq.NewClient(RedisOpt(cfg)),
		timeout:  cfg.TaskTimeLimit,
		maxRetry: cfg.TaskMaxRetry,
		logger:   logger.With("component", "queue"),
	}
}

// EnqueueValidation ставит задачу валидации в очередь.
func (c *Client) EnqueueValidation(ctx context.Context, datasetID, jobID string) error {
	payload, err := json.Marshal(ValidatePayload{DatasetID: datasetID, JobID: jobID})
	if err != nil {
		return fmt.Errorf("ошибка сериализации задачи валидации: %w", err)
	}

	task := asynq.NewTask(TypeValidateDataset, payload)
	taskID := ValidationTaskID(datasetID, jobID)

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(c.timeout),
	)
	if err != nil {
		// Задача с таким id уже в очереди — постановка идемпотентна.
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			c.logger.Info("Задача валидации уже в очереди",
				"dataset_id", datasetID,
				"task_id", taskID)
			return nil
		}
		return fmt.Errorf("ошибка постановки задачи валидации: %w", err)
	}

	c.logger.Info("Задача валидации поставлена в очередь",
		"dataset_id", datasetID,
		"task_id", info.ID,
		"queue", info.Queue)
	return nil
}

// Close закрывает подключение клиента к Redis.
func (c *Client) Close() error {
	return c.client.Close()
}

// ReadinessChecker проверяет доступность Redis.
type ReadinessChecker struct {
	rdb *redis.Client
}

// NewReadinessChecker создаёт проверку готовности очереди.
func NewReadinessChecker(cfg *config.Config) *ReadinessChecker {
	return &ReadinessChecker{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

// CheckReady возвращает статус и сообщение для readiness probe.
func (c *ReadinessChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return "fail", fmt.Sprintf("Redis недоступен: %v", err)
	}
	return "ok", "Redis доступен"
}

// Close закрывает подключение проверки к Redis.
func (c *ReadinessChecker) Close() error {
	return c.rdb.Close()
}
