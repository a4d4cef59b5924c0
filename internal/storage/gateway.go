// Пакет storage — шлюз к объектному хранилищу S3.
// Сервис никогда не проксирует содержимое файлов: клиенты загружают
// их напрямую по presigned URL, а сервис только выписывает URL,
// проверяет наличие объектов и удаляет их.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound — объект отсутствует в хранилище.
var ErrObjectNotFound = errors.New("объект не найден в хранилище")

// UploadURL — presigned URL для прямой загрузки файла клиентом.
// Headers — заголовки, подписанные в URL: клиент обязан передать их
// в запросе загрузки байт-в-байт, иначе подпись не сойдётся.
type UploadURL struct {
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// ObjectInfo — метаданные объекта в хранилище.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Gateway — интерфейс шлюза объектного хранилища.
type Gateway interface {
	// PresignUpload выписывает presigned PUT URL для ключа.
	// contentType подписывается в URL: загрузка с другим Content-Type будет отклонена.
	PresignUpload(ctx context.Context, key, contentType string) (*UploadURL, error)
	// Stat возвращает метаданные объекта.
	// Возвращает ErrObjectNotFound, если объект отсутствует.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	// DeleteMany удаляет объекты по ключам. Отсутствующие ключи не являются ошибкой.
	DeleteMany(ctx context.Context, keys []string) error
	// EnsureBucket создаёт bucket, если он ещё не существует.
	EnsureBucket(ctx context.Context) error
}
