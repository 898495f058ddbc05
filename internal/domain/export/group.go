package export

import (
	"fmt"
	"time"

	"github.com/enplural/konyx-api/internal/domain/entity"
	"github.com/enplural/konyx-api/internal/domain/schema"
)

// GroupOptions opciones de numeración de facturas.
// Con AutoNumber apagado (modo borrador) cada grupo queda sin número y la
// plataforma de facturación asigna el suyo propio; así las dos secuencias
// nunca pueden colisionar.
type GroupOptions struct {
	AutoNumber bool
}

// Group agrupa los renglones por (paciente normalizado, mes de facturación)
// y asigna un número de factura por grupo. El mes sale de la fecha de
// facturación de la ejecución, no de la fecha de cada sesión: se emite una
// factura por cliente por lote de proceso.
//
// Numeración: F<YYMM><secuencia 04d>, con la secuencia arrancando en 1 e
// incrementando una vez por grupo distinto en el orden en que los grupos se
// descubren al recorrer las filas de arriba a abajo. Para un mismo orden de
// entrada el resultado es reproducible.
func Group(rows []entity.MergedRow, billingDate time.Time, opts GroupOptions) []entity.InvoiceGroup {
	month := billingDate.Format("2006-01")
	prefix := billingDate.Format("0601") // YYMM

	index := make(map[string]int) // clave de grupo -> posición en groups
	groups := make([]entity.InvoiceGroup, 0)

	for _, row := range rows {
		key := schema.NormalizeName(row.Session.Patient) + "|" + month
		i, ok := index[key]
		if !ok {
			seq := len(groups) + 1
			number := ""
			if opts.AutoNumber {
				number = fmt.Sprintf("F%s%04d", prefix, seq)
			}
			groups = append(groups, entity.InvoiceGroup{
				Patient: row.Session.Patient,
				Month:   month,
				Number:  number,
				Seq:     seq,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Rows = append(groups[i].Rows, row)
		groups[i].Total = groups[i].Total.Add(row.Session.Price)
	}
	return groups
}
