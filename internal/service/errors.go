// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrStorageUnavailable — объектное хранилище недоступно.
	ErrStorageUnavailable = errors.New("объектное хранилище недоступно")
	// ErrNoValidation — валидация датасета ещё не запускалась.
	ErrNoValidation = errors.New("валидация датасета ещё не запускалась")
)
