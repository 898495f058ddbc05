package export

import (
	"fmt"
	"strings"

	"github.com/enplural/konyx-api/internal/domain/entity"
)

// HoldedColumns cabecera oficial de la plantilla de importación de Holded:
// 32 columnas fijas, en este orden exacto.
var HoldedColumns = []string{
	"Num factura",
	"Formato de numeración",
	"Fecha dd/mm/yyyy",
	"Fecha de vencimiento dd/mm/yyyy",
	"Descripción",
	"Nombre del contacto",
	"NIF del contacto",
	"Dirección",
	"Población",
	"Código postal",
	"Provincia",
	"País",
	"Concepto",
	"Descripción del producto",
	"SKU",
	"Precio unidad",
	"Unidades",
	"Descuento %",
	"IVA %",
	"Retención %",
	"Rec. de eq. %",
	"Operación",
	"Forma de pago (ID)",
	"Cantidad cobrada",
	"Fecha de cobro",
	"Cuenta de pago",
	"Tags separados por -",
	"Nombre canal de venta",
	"Cuenta canal de venta",
	"Moneda",
	"Cambio de moneda",
	"Almacén",
}

// RenderHoldedCSV genera el CSV de importación de Holded: una línea por
// sesión (Holded espera el detalle itemizado), con los campos de cabecera
// de la factura repetidos e idénticos en todas las líneas del mismo grupo.
// En modo borrador "Num factura" va vacío y Holded numera con el formato de
// numeración declarado.
func RenderHoldedCSV(groups []entity.InvoiceGroup, ctx Context) ([]byte, string, error) {
	date := ctx.BillingDate.Format("02/01/2006")
	description := fmt.Sprintf("Servicios de psicoterapia (%s)", ctx.Company)
	tags := projectTag(ctx.Project)

	var rows [][]string
	for i := range groups {
		g := &groups[i]
		c := g.ContactData()
		country := c.Country
		if country == "" {
			country = defaultCountry
		}
		for _, row := range g.Rows {
			rows = append(rows, []string{
				g.Number,
				numberingFormat,
				date,
				date,
				description,
				g.Patient,
				c.TaxID,
				c.Address,
				c.City,
				c.PostalCode,
				c.Province,
				country,
				conceptPsychotherapy,
				sessionDetail(row.Session),
				"", // SKU
				row.Session.Price.StringFixed(2),
				"1",
				"", // descuento
				taxRateZero,
				"", // retención
				"", // rec. de equivalencia
				"Sujeta No Exenta",
				defaultPayment,
				"", // cantidad cobrada
				"", // fecha de cobro
				ctx.LedgerAccount,
				tags,
				"", // nombre canal de venta
				"", // cuenta canal de venta
				defaultCurrency,
				"1",
				"", // almacén
			})
		}
	}

	data, err := writeCSV(HoldedColumns, rows)
	if err != nil {
		return nil, "", err
	}
	return data, artifactName(TargetHolded, ctx, "csv"), nil
}

// projectTag convierte el nombre de proyecto en el tag de Holded: "#en-plural".
func projectTag(project string) string {
	return "#" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(project)), " ", "-")
}
