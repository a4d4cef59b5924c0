package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bigkaa/godatastore/ingest-module/internal/config"
)

// MinioGateway — реализация Gateway поверх minio-go.
// Работает с любым S3-совместимым хранилищем (MinIO, AWS S3, Ceph RGW).
type MinioGateway struct {
	client       *minio.Client
	bucket       string
	uploadURLTTL time.Duration
	logger       *slog.Logger
}

// NewMinioGateway создаёт шлюз объектного хранилища.
func NewMinioGateway(cfg *config.Config, logger *slog.Logger) (*MinioGateway, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}

	return &MinioGateway{
		client:       client,
		bucket:       cfg.S3Bucket,
		uploadURLTTL: cfg.UploadURLTTL,
		logger:       logger.With("component", "storage"),
	}, nil
}

// PresignUpload выписывает presigned PUT URL для ключа.
// Content-Type включается в подпись: загрузка с другим заголовком
// будет отклонена хранилищем (SignatureDoesNotMatch).
func (g *MinioGateway) PresignUpload(ctx context.Context, key, contentType string) (*UploadURL, error) {
	extraHeaders := http.Header{}
	if contentType != "" {
		extraHeaders.Set("Content-Type", contentType)
	}

	u, err := g.client.PresignHeader(ctx, http.MethodPut, g.bucket, key, g.uploadURLTTL, url.Values{}, extraHeaders)
	if err != nil {
		return nil, fmt.Errorf("ошибка выписки presigned URL для %s: %w", key, err)
	}

	headers := make(map[string]string)
	if contentType != "" {
		headers["Content-Type"] = contentType
	}

	return &UploadURL{
		URL:       u.String(),
		Method:    http.MethodPut,
		Headers:   headers,
		ExpiresAt: time.Now().UTC().Add(g.uploadURLTTL),
	}, nil
}

// Stat возвращает метаданные объекта.
func (g *MinioGateway) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	info, err := g.client.StatObject(ctx, g.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("ошибка запроса объекта %s: %w", key, err)
	}
	return &ObjectInfo{Key: key, Size: info.Size}, nil
}

// DeleteMany удаляет объекты по ключам батчем.
func (g *MinioGateway) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var firstErr error
	for res := range g.client.RemoveObjects(ctx, g.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if res.Err != nil {
			g.logger.Error("Ошибка удаления объекта",
				"key", res.ObjectName,
				"error", res.Err)
			if firstErr == nil {
				firstErr = fmt.Errorf("ошибка удаления объекта %s: %w", res.ObjectName, res.Err)
			}
		}
	}
	return firstErr
}

// EnsureBucket создаёт bucket, если он ещё не существует.
func (g *MinioGateway) EnsureBucket(ctx context.Context) error {
	exists, err := g.client.BucketExists(ctx, g.bucket)
	if err != nil {
		return fmt.Errorf("ошибка проверки bucket %s: %w", g.bucket, err)
	}
	if exists {
		return nil
	}
	if err := g.client.MakeBucket(ctx, g.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("ошибка создания bucket %s: %w", g.bucket, err)
	}
	g.logger.Info("Bucket создан", "bucket", g.bucket)
	return nil
}

// ReadinessChecker проверяет доступность объектного хранилища.
type ReadinessChecker struct {
	gateway *MinioGateway
}

// NewReadinessChecker создаёт проверку готовности хранилища.
func NewReadinessChecker(gateway *MinioGateway) *ReadinessChecker {
	return &ReadinessChecker{gateway: gateway}
}

// CheckReady возвращает статус и сообщение для readiness probe.
func (c *ReadinessChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.gateway.client.BucketExists(ctx, c.gateway.bucket); err != nil {
		return "fail", fmt.Sprintf("S3 недоступен: %v", err)
	}
	return "ok", "S3 доступен"
}
