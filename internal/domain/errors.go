package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrCorrupted         = errors.New("datos almacenados corruptos")
	ErrStorage           = errors.New("fallo del almacenamiento")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
