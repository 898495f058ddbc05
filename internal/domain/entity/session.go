package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionRecord representa una sesión de terapia facturable, tal como viene
// en una fila del libro de sesiones. Inmutable una vez parseada.
type SessionRecord struct {
	Patient     string
	Therapist   string
	Date        time.Time
	RawDate     string // valor original de la celda, para el detalle de factura
	ServiceType string
	Price       decimal.Decimal
	Status      string // estado de pago según el libro de sesiones
}
