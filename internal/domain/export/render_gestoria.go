package export

import "github.com/enplural/konyx-api/internal/domain/entity"

// GestoriaColumns cabecera oficial del CSV contable: 19 columnas fijas.
// Coincide con la plantilla de sesiones en formato gestoría, de modo que el
// artefacto generado vuelve a validar contra esa plantilla.
var GestoriaColumns = []string{
	"Número",
	"Nombre fiscal",
	"Concepto",
	"IVA",
	"Importe",
	"Fecha",
	"Forma de pago (ID)",
	"Cuenta contable",
	"Proyecto",
	"Empresa",
	"NIF",
	"Email",
	"Teléfono",
	"Dirección",
	"Código postal",
	"Población",
	"Provincia",
	"País",
	"Tags",
}

// RenderGestoriaCSV genera el CSV contable: una línea por grupo de factura
// con el importe total del grupo. Campos sin dato salen como cadena vacía,
// nunca se omite una columna.
func RenderGestoriaCSV(groups []entity.InvoiceGroup, ctx Context) ([]byte, string, error) {
	rows := make([][]string, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		c := g.ContactData()
		country := c.Country
		if country == "" {
			country = defaultCountry
		}
		rows = append(rows, []string{
			g.Number,
			g.Patient,
			conceptPsychotherapy,
			taxRateZero,
			g.Total.StringFixed(2),
			ctx.BillingDate.Format("02/01/2006"),
			"", // forma de pago: la asigna contabilidad
			ctx.LedgerAccount,
			ctx.Project,
			ctx.Company,
			c.TaxID,
			c.Email,
			c.Phone,
			c.Address,
			c.PostalCode,
			c.City,
			c.Province,
			country,
			"#paciente",
		})
	}

	data, err := writeCSV(GestoriaColumns, rows)
	if err != nil {
		return nil, "", err
	}
	return data, artifactName(TargetGestoria, ctx, "csv"), nil
}
