package entity

import "github.com/shopspring/decimal"

// InvoiceGroup es la unidad de salida: una factura por (paciente, mes de
// facturación). Invariante: dentro de una ejecución los números de factura
// son únicos y estrictamente crecientes en orden de descubrimiento, y cada
// MergedRow pertenece exactamente a un grupo.
type InvoiceGroup struct {
	Patient string
	Month   string // YYYY-MM, derivado de la fecha de facturación
	Number  string // F<YYMM><secuencia 04d>; vacío en modo borrador
	Seq     int    // posición del grupo en orden de descubrimiento (desde 1)
	Rows    []MergedRow
	Total   decimal.Decimal
}

// ContactData devuelve el contacto del grupo: el primero con match, o el del
// primer renglón si ninguno casó.
func (g *InvoiceGroup) ContactData() ContactRecord {
	for _, r := range g.Rows {
		if r.Matched {
			return r.Contact
		}
	}
	if len(g.Rows) > 0 {
		return g.Rows[0].Contact
	}
	return ContactRecord{}
}
