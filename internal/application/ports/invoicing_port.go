package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlatformInvoiceItem línea de detalle de una factura enviada a la
// plataforma de facturación.
type PlatformInvoiceItem struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Tax         int
}

// PlatformInvoice factura a crear en la plataforma de facturación externa.
type PlatformInvoice struct {
	ContactName string
	Concept     string
	Description string
	Items       []PlatformInvoiceItem
	Currency    string
	DueDate     string // YYYY-MM-DD
	Tags        []string
	Payment     string
}

// InvoicingPlatform define el puerto hacia la plataforma de facturación.
// Se llama una vez por grupo de factura; un error en un grupo no debe
// abortar los siguientes.
type InvoicingPlatform interface {
	CreateInvoice(ctx context.Context, apiKey string, inv PlatformInvoice) error
}
