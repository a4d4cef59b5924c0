package model

import "time"

// File — заявленный файл dataset.
// Хранится в таблице files, удаляется каскадно вместе с dataset.
type File struct {
	// FileID — UUID файла
	FileID string
	// DatasetID — UUID dataset-владельца
	DatasetID string
	// Filename — заявленное имя файла
	Filename string
	// StorageKey — глобально уникальный ключ объекта в хранилище,
	// формат datasets/{dataset_id}/{uuid}/{filename}
	StorageKey string
	// SizeBytes — заявленный размер в байтах
	SizeBytes int64
	// ContentType — MIME-тип файла
	ContentType string
	// IsUploaded — сессия загрузки файла закрыта координатором
	// (декларативный флаг, не подтверждение наличия в хранилище)
	IsUploaded bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
}
