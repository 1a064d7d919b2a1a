package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrValidation         = errors.New("regla de negocio incumplida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// Errores del motor de inventario y fulfillment.
var (
	// ErrInsufficientStock: la cantidad disponible no cubre lo solicitado.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrNegativeStock: la operación dejaría existencia o reserva negativa.
	ErrNegativeStock = errors.New("la operación dejaría stock negativo")
	// ErrStateConflict: transición de estado no permitida; la entidad no cambia.
	ErrStateConflict = errors.New("transición de estado no permitida")
	// ErrConcurrencyConflict: otra operación modificó la entidad primero.
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
	// ErrNoCapacity: ninguna ubicación tiene cupo para el put-away.
	ErrNoCapacity = errors.New("sin capacidad disponible en ubicaciones")
	// ErrNoEligibleCarrier: ninguna transportadora pasó los filtros de exclusión.
	ErrNoEligibleCarrier = errors.New("ninguna transportadora elegible")
	// ErrEmptySelection: los criterios del plan de olas no seleccionaron pedidos.
	ErrEmptySelection = errors.New("ningún pedido cumple los criterios de la ola")
)
