package model

import "time"

// Статусы ValidationJob.
// PENDING и PROCESSING — переходные, COMPLETED и FAILED — терминальные.
const (
	ValidationStatusPending    = "pending"
	ValidationStatusProcessing = "processing"
	ValidationStatusCompleted  = "completed"
	ValidationStatusFailed     = "failed"
)

// Уровни записей журнала валидации.
const (
	LogLevelInfo  = "INFO"
	LogLevelError = "ERROR"
)

// ValidationJob — один запуск валидации dataset.
// Dataset может иметь историю jobs; авторитетным считается
// последний по created_at. После создания job мутируется
// только Validation Worker'ом.
type ValidationJob struct {
	// JobID — UUID job
	JobID string
	// DatasetID — UUID dataset
	DatasetID string
	// Status — статус (pending, processing, completed, failed)
	Status string
	// TaskID — корреляционный токен задачи очереди,
	// формат validate-{dataset_id}-{job_id}
	TaskID string
	// ErrorMessage — сообщение об ошибке (для failed)
	ErrorMessage *string
	// Logs — структурированный append-only журнал валидации
	Logs []ValidationLogEntry
	// Results — итоговая сводка (для completed)
	Results *ValidationResult
	// CreatedAt — время создания job
	CreatedAt time.Time
	// StartedAt — время начала обработки worker'ом
	StartedAt *time.Time
	// CompletedAt — время терминального перехода
	CompletedAt *time.Time
}

// IsTerminal возвращает true для терминальных статусов.
func (j *ValidationJob) IsTerminal() bool {
	return j.Status == ValidationStatusCompleted || j.Status == ValidationStatusFailed
}

// ValidationLogEntry — одна запись журнала валидации.
type ValidationLogEntry struct {
	// Timestamp — время события (RFC3339)
	Timestamp time.Time `json:"timestamp"`
	// Level — уровень (INFO, ERROR)
	Level string `json:"level"`
	// Message — текст события
	Message string `json:"message"`
}

// FileValidationDetail — результат проверки одного файла.
type FileValidationDetail struct {
	// Filename — заявленное имя файла
	Filename string `json:"filename"`
	// StorageKey — ключ объекта в хранилище
	StorageKey string `json:"storage_key"`
	// Size — фактический размер объекта в байтах
	Size int64 `json:"size"`
	// Status — результат проверки ("valid")
	Status string `json:"status"`
}

// ValidationResult — итоговая сводка успешной валидации.
type ValidationResult struct {
	// TotalFiles — количество заявленных файлов
	TotalFiles int `json:"total_files"`
	// ValidatedFiles — количество подтверждённых файлов
	ValidatedFiles int `json:"validated_files"`
	// TotalSizeBytes — суммарный фактический размер
	TotalSizeBytes int64 `json:"total_size_bytes"`
	// Files — подробности по каждому файлу
	Files []FileValidationDetail `json:"files"`
}
