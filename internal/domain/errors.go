package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores de precondición del sync: terminales y sin reintento.
// Se distinguen de las fallas a mitad de corrida (que sí se registran en SyncRun).
var (
	ErrConnectionNotFound  = errors.New("conexión no encontrada")
	ErrConnectionInactive  = errors.New("la conexión está inactiva")
	ErrUnsupportedPlatform = errors.New("plataforma no soportada")
	ErrSetupIncomplete     = errors.New("configuración de proveedores pendiente")
)

// Errores del flujo de aprobación por magic-link.
var (
	ErrTokenExpired     = errors.New("el enlace de aprobación expiró")
	ErrAlreadyProcessed = errors.New("la solicitud ya fue procesada")
)
