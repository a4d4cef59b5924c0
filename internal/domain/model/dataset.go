package model

import "time"

// Dataset — набор файлов, загружаемых командой одной сессией.
// Хранится в таблице datasets.
//
// Жизненный цикл: создаётся Upload Orchestrator'ом
// (uploads_complete=false), закрывается Completion Coordinator'ом
// (uploads_complete=true), после успешной валидации worker уточняет
// file_count и total_size_bytes по фактическому содержимому хранилища.
type Dataset struct {
	// DatasetID — UUID dataset
	DatasetID string
	// TeamID — UUID команды-владельца
	TeamID string
	// Name — имя dataset
	Name string
	// Description — описание
	Description string
	// FileCount — количество заявленных файлов;
	// после валидации — количество подтверждённых
	FileCount int
	// UploadsComplete — сессия загрузки закрыта
	// (фиксирует закрытие сессии, не успех валидации)
	UploadsComplete bool
	// TotalSizeBytes — суммарный размер, заполняется после валидации
	TotalSizeBytes int64
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
