package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrUnknownFormat  = errors.New("formato de archivo desconocido")
	ErrEmptySheet     = errors.New("el archivo está vacío o no contiene datos")
	ErrExportRunning  = errors.New("ya hay una exportación en curso")
	ErrUnknownCompany = errors.New("empresa desconocida")
	ErrInvalidDate    = errors.New("fecha de factura inválida")
)
