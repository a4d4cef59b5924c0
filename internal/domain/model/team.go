package model

import "time"

// Team — команда, владеющая datasets.
// Аутентификация пользователей команды выполняется внешним IdP;
// здесь хранится только справочная запись.
type Team struct {
	// TeamID — UUID команды
	TeamID string
	// Name — уникальное имя команды
	Name string
	// Description — описание (опционально)
	Description string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}
