package services

import "errors"

// Ошибки бизнес-логики. Конкретные причины оборачиваются через %w,
// обработчики определяют код ответа с помощью errors.Is
var (
	ErrValidation = errors.New("ошибка валидации")
	ErrConflict   = errors.New("конфликт данных")
	ErrNotFound   = errors.New("не найдено")
)
