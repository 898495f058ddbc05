package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/enplural/konyx-api/internal/domain/entity"
)

// GestoriaDetailColumns cabecera del libro XLSX de detalle para gestoría:
// una línea por sesión con la base imponible de cada una.
var GestoriaDetailColumns = []string{
	"Número factura",
	"Nombre fiscal",
	"NIF",
	"Dirección",
	"Código postal",
	"Población",
	"Provincia",
	"País",
	"Email",
	"Teléfono",
	"Fecha factura",
	"Concepto",
	"Detalle",
	"Base imponible",
	"IVA (%)",
	"Total factura",
	"Forma de pago (ID)",
	"Cuenta contable",
	"Proyecto",
	"Empresa",
}

const gestoriaSheetName = "Facturas Gestoría"

// RenderGestoriaXLSX genera el libro XLSX de detalle: una línea por sesión,
// compartiendo el número de factura de su grupo. IVA 0% (servicios
// sanitarios exentos).
func RenderGestoriaXLSX(groups []entity.InvoiceGroup, ctx Context) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), gestoriaSheetName)

	date := ctx.BillingDate.Format("02/01/2006")
	widths := make([]int, len(GestoriaDetailColumns))

	writeRow := func(rowNum int, values []string) error {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		ref, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(gestoriaSheetName, ref, &cells)
	}

	if err := writeRow(1, GestoriaDetailColumns); err != nil {
		return nil, "", err
	}

	rowNum := 2
	for i := range groups {
		g := &groups[i]
		c := g.ContactData()
		country := c.Country
		if country == "" {
			country = defaultCountry
		}
		for _, row := range g.Rows {
			price := row.Session.Price.StringFixed(2)
			values := []string{
				g.Number,
				g.Patient,
				c.TaxID,
				c.Address,
				c.PostalCode,
				c.City,
				c.Province,
				country,
				c.Email,
				c.Phone,
				date,
				conceptPsychotherapy,
				sessionDetail(row.Session),
				price,
				taxRateZero,
				price,
				defaultPayment,
				ctx.LedgerAccount,
				ctx.Project,
				ctx.Company,
			}
			if err := writeRow(rowNum, values); err != nil {
				return nil, "", err
			}
			rowNum++
		}
	}

	// Ancho de columna según el contenido más largo
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		_ = f.SetColWidth(gestoriaSheetName, col, col, float64(w+2))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), artifactName(TargetGestoriaExcel, ctx, "xlsx"), nil
}
