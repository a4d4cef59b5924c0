// Пакет config — загрузка и валидация конфигурации Ingest Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Роли процесса.
const (
	// RoleAPI — только HTTP API.
	RoleAPI = "api"
	// RoleWorker — только обработчик задач очереди.
	RoleWorker = "worker"
	// RoleAll — API и worker в одном процессе.
	RoleAll = "all"
)

// Config содержит все параметры конфигурации Ingest Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8000-8009)
	Port int
	// Роль процесса (api, worker, all)
	Role string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Redis (брокер очереди задач) ---

	// Адрес Redis (host:port)
	RedisAddr string
	// Пароль Redis (опционально)
	RedisPassword string
	// Номер базы Redis
	RedisDB int

	// --- Объектное хранилище (S3/MinIO) ---

	// Endpoint S3 (host:port, без схемы)
	S3Endpoint string
	// Access key S3
	S3AccessKey string
	// Secret key S3
	S3SecretKey string
	// Имя bucket для datasets
	S3Bucket string
	// Регион S3 (опционально)
	S3Region string
	// Использовать TLS при подключении к S3
	S3UseSSL bool
	// TTL presigned upload URL
	UploadURLTTL time.Duration

	// --- JWT (валидация токенов внешнего IdP по JWKS) ---

	// URL JWKS endpoint IdP
	JWTJWKSURL string
	// Ожидаемый issuer JWT (опционально)
	JWTIssuer string
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с IdP (опционально)
	CACertPath string

	// --- Маппинг групп → ролей ---

	// Группы IdP, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы IdP, дающие роль readonly (через запятую)
	RoleReadonlyGroups []string

	// --- Worker ---

	// Количество параллельных обработчиков задач
	WorkerConcurrency int
	// Жёсткий лимит времени задачи валидации
	TaskTimeLimit time.Duration
	// Мягкий лимит: worker завершает задачу сам и фиксирует partial FAILED
	TaskSoftTimeLimit time.Duration
	// Максимум повторов задачи при неожиданных ошибках
	TaskMaxRetry int

	// --- Retention ---

	// Окно хранения datasets в днях
	RetentionDays int
	// Расписание запуска retention sweeper (cron-формат asynq)
	RetentionSchedule string

	// --- Мониторинг зависимостей ---

	// Группа в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
//
//nolint:cyclop,funlen // последовательная загрузка параметров
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// IM_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("IM_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("IM_PORT: %w", err)
	}
	if cfg.Port < 8000 || cfg.Port > 8009 {
		return nil, fmt.Errorf("IM_PORT: значение %d вне допустимого диапазона 8000-8009", cfg.Port)
	}

	// IM_ROLE — роль процесса (по умолчанию all)
	cfg.Role = getEnvDefault("IM_ROLE", RoleAll)
	if cfg.Role != RoleAPI && cfg.Role != RoleWorker && cfg.Role != RoleAll {
		return nil, fmt.Errorf("IM_ROLE: недопустимое значение %q, допустимые: api, worker, all", cfg.Role)
	}

	// IM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("IM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("IM_LOG_LEVEL: %w", err)
	}

	// IM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("IM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("IM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// IM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("IM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// IM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("IM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("IM_DB_PORT: %w", err)
	}

	// IM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("IM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// IM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("IM_DB_USER")
	if err != nil {
		return nil, err
	}

	// IM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("IM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// IM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("IM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("IM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Redis ---

	// IM_REDIS_ADDR — обязательный
	cfg.RedisAddr, err = getEnvRequired("IM_REDIS_ADDR")
	if err != nil {
		return nil, err
	}

	// IM_REDIS_PASSWORD — опциональный
	cfg.RedisPassword = getEnvDefault("IM_REDIS_PASSWORD", "")

	// IM_REDIS_DB — номер базы (по умолчанию 0)
	cfg.RedisDB, err = getEnvInt("IM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("IM_REDIS_DB: %w", err)
	}

	// --- S3/MinIO ---

	// IM_S3_ENDPOINT — обязательный
	cfg.S3Endpoint, err = getEnvRequired("IM_S3_ENDPOINT")
	if err != nil {
		return nil, err
	}

	// IM_S3_ACCESS_KEY — обязательный
	cfg.S3AccessKey, err = getEnvRequired("IM_S3_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	// IM_S3_SECRET_KEY — обязательный
	cfg.S3SecretKey, err = getEnvRequired("IM_S3_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	// IM_S3_BUCKET — bucket для datasets (по умолчанию datasets)
	cfg.S3Bucket = getEnvDefault("IM_S3_BUCKET", "datasets")

	// IM_S3_REGION — регион (опционально)
	cfg.S3Region = getEnvDefault("IM_S3_REGION", "")

	// IM_S3_USE_SSL — TLS при подключении к S3 (по умолчанию false)
	cfg.S3UseSSL, err = getEnvBool("IM_S3_USE_SSL", false)
	if err != nil {
		return nil, fmt.Errorf("IM_S3_USE_SSL: %w", err)
	}

	// IM_UPLOAD_URL_TTL — TTL presigned URL (по умолчанию 1h)
	cfg.UploadURLTTL, err = getEnvDuration("IM_UPLOAD_URL_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("IM_UPLOAD_URL_TTL: %w", err)
	}

	// --- JWT ---

	// IM_JWT_JWKS_URL — обязательный
	cfg.JWTJWKSURL, err = getEnvRequired("IM_JWT_JWKS_URL")
	if err != nil {
		return nil, err
	}

	// IM_JWT_ISSUER — ожидаемый issuer (опционально)
	cfg.JWTIssuer = getEnvDefault("IM_JWT_ISSUER", "")

	// IM_JWT_LEEWAY — допуск времени при проверке JWT (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("IM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_JWT_LEEWAY: %w", err)
	}

	// IM_JWKS_REFRESH_INTERVAL — интервал обновления JWKS (по умолчанию 5m)
	cfg.JWKSRefreshInterval, err = getEnvDuration("IM_JWKS_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("IM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// IM_JWKS_CLIENT_TIMEOUT — таймаут HTTP-клиента JWKS (по умолчанию 10s)
	cfg.JWKSClientTimeout, err = getEnvDuration("IM_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	// IM_CA_CERT_PATH — CA-сертификат для IdP (опционально)
	cfg.CACertPath = getEnvDefault("IM_CA_CERT_PATH", "")

	// --- Маппинг групп → ролей ---

	// IM_ROLE_ADMIN_GROUPS — группы для роли admin (по умолчанию "datastore-admins")
	cfg.RoleAdminGroups = parseCSV(getEnvDefault("IM_ROLE_ADMIN_GROUPS", "datastore-admins"))

	// IM_ROLE_READONLY_GROUPS — группы для роли readonly (по умолчанию "datastore-viewers")
	cfg.RoleReadonlyGroups = parseCSV(getEnvDefault("IM_ROLE_READONLY_GROUPS", "datastore-viewers"))

	// --- Worker ---

	// IM_WORKER_CONCURRENCY — параллелизм обработчиков (по умолчанию 10)
	cfg.WorkerConcurrency, err = getEnvInt("IM_WORKER_CONCURRENCY", 10)
	if err != nil {
		return nil, fmt.Errorf("IM_WORKER_CONCURRENCY: %w", err)
	}
	if cfg.WorkerConcurrency < 1 || cfg.WorkerConcurrency > 100 {
		return nil, fmt.Errorf("IM_WORKER_CONCURRENCY: значение %d вне допустимого диапазона 1-100", cfg.WorkerConcurrency)
	}

	// IM_TASK_TIME_LIMIT — жёсткий лимит задачи (по умолчанию 1h)
	cfg.TaskTimeLimit, err = getEnvDuration("IM_TASK_TIME_LIMIT", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("IM_TASK_TIME_LIMIT: %w", err)
	}

	// IM_TASK_SOFT_TIME_LIMIT — мягкий лимит задачи (по умолчанию 55m)
	cfg.TaskSoftTimeLimit, err = getEnvDuration("IM_TASK_SOFT_TIME_LIMIT", 55*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("IM_TASK_SOFT_TIME_LIMIT: %w", err)
	}
	if cfg.TaskSoftTimeLimit >= cfg.TaskTimeLimit {
		return nil, fmt.Errorf("IM_TASK_SOFT_TIME_LIMIT: мягкий лимит %s должен быть меньше жёсткого %s",
			cfg.TaskSoftTimeLimit, cfg.TaskTimeLimit)
	}

	// IM_TASK_MAX_RETRY — максимум повторов задачи (по умолчанию 3)
	cfg.TaskMaxRetry, err = getEnvInt("IM_TASK_MAX_RETRY", 3)
	if err != nil {
		return nil, fmt.Errorf("IM_TASK_MAX_RETRY: %w", err)
	}

	// --- Retention ---

	// IM_RETENTION_DAYS — окно хранения (по умолчанию 30 дней)
	cfg.RetentionDays, err = getEnvInt("IM_RETENTION_DAYS", 30)
	if err != nil {
		return nil, fmt.Errorf("IM_RETENTION_DAYS: %w", err)
	}
	if cfg.RetentionDays < 1 {
		return nil, fmt.Errorf("IM_RETENTION_DAYS: значение %d должно быть положительным", cfg.RetentionDays)
	}

	// IM_RETENTION_SCHEDULE — расписание sweeper (по умолчанию раз в сутки)
	cfg.RetentionSchedule = getEnvDefault("IM_RETENTION_SCHEDULE", "@every 24h")

	// --- Мониторинг зависимостей ---

	// IM_DEPHEALTH_GROUP — группа в метриках (по умолчанию datastore)
	cfg.DephealthGroup = getEnvDefault("IM_DEPHEALTH_GROUP", "datastore")

	// IM_DEPHEALTH_CHECK_INTERVAL — интервал проверки (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("IM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// IM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("IM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("IM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL
// (для метрик и лейблов topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// RunsAPI возвращает true, если процесс обслуживает HTTP API.
func (c *Config) RunsAPI() bool {
	return c.Role == RoleAPI || c.Role == RoleAll
}

// RunsWorker возвращает true, если процесс обрабатывает задачи очереди.
func (c *Config) RunsWorker() bool {
	return c.Role == RoleWorker || c.Role == RoleAll
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
