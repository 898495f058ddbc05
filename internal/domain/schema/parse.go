package schema

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/enplural/konyx-api/internal/domain/entity"
)

// Sheet es una hoja de cálculo ya leída: cabeceras en su orden original y
// filas como matriz de celdas en texto. Las filas pueden venir más cortas
// que la cabecera (celdas finales vacías).
type Sheet struct {
	Columns []string
	Rows    [][]string
}

// IsEmpty indica si la hoja no tiene filas de datos.
func (s Sheet) IsEmpty() bool { return len(s.Rows) == 0 }

// Tabla declarativa de alias: candidatos por campo, en orden de prioridad.
// Se resuelve una sola vez por hoja en lugar de buscar nombres ad hoc en
// cada renderizador. "precio unidad" → "importe" → "precio" → "total" es la
// cadena documentada de resolución de importes; el primero presente gana.
var (
	patientAliases   = []string{"paciente", "nombre paciente", "cliente", "nombre del contacto", "nombre contacto", "nombre fiscal", "usuario", "nombre"}
	therapistAliases = []string{"profesional", "terapeuta", "psicologo/a", "psicologa", "psicologo"}
	dateAliases      = []string{"fecha"}
	typeAliases      = []string{"tipo", "concepto"}
	priceAliases     = []string{"precio unidad", "importe", "precio", "total"}
	statusAliases    = []string{"estado"}

	contactNameAliases = []string{"nombre", "paciente"}
	taxIDAliases       = []string{"nif", "documento de identidad", "dni"}
	addressAliases     = []string{"direccion"}
	postalAliases      = []string{"codigo postal", "cp"}
	cityAliases        = []string{"poblacion", "ciudad"}
	provinceAliases    = []string{"provincia"}
	countryAliases     = []string{"pais"}
	emailAliases       = []string{"email", "correo"}
	phoneAliases       = []string{"telefono"}
)

// columnIndex localiza la primera columna cuyo nombre normalizado coincide
// con alguno de los candidatos, en orden de prioridad. Devuelve -1 si no hay.
func columnIndex(cols []string, candidates []string) int {
	norm := make([]string, len(cols))
	for i, c := range cols {
		norm[i] = Normalize(c)
	}
	for _, cand := range candidates {
		for i, c := range norm {
			if c == cand {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseSessions convierte la hoja del libro de sesiones en registros tipados.
// La tabla de alias se resuelve una vez sobre las cabeceras; las filas sin
// paciente se descartan (renglones de totales o en blanco al final).
func ParseSessions(sheet Sheet) []entity.SessionRecord {
	patientIdx := columnIndex(sheet.Columns, patientAliases)
	therapistIdx := columnIndex(sheet.Columns, therapistAliases)
	dateIdx := columnIndex(sheet.Columns, dateAliases)
	typeIdx := columnIndex(sheet.Columns, typeAliases)
	priceIdx := columnIndex(sheet.Columns, priceAliases)
	statusIdx := columnIndex(sheet.Columns, statusAliases)

	out := make([]entity.SessionRecord, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		patient := cell(row, patientIdx)
		if patient == "" {
			continue
		}
		raw := cell(row, dateIdx)
		out = append(out, entity.SessionRecord{
			Patient:     patient,
			Therapist:   cell(row, therapistIdx),
			Date:        ParseDate(raw),
			RawDate:     raw,
			ServiceType: cell(row, typeIdx),
			Price:       ParseAmount(cell(row, priceIdx)),
			Status:      cell(row, statusIdx),
		})
	}
	return out
}

// ParseContacts convierte la hoja del registro de contactos en registros
// tipados. El código postal se recorta a 5 caracteres, como exige el
// enriquecedor.
func ParseContacts(sheet Sheet) []entity.ContactRecord {
	nameIdx := columnIndex(sheet.Columns, contactNameAliases)
	taxIdx := columnIndex(sheet.Columns, taxIDAliases)
	addrIdx := columnIndex(sheet.Columns, addressAliases)
	postalIdx := columnIndex(sheet.Columns, postalAliases)
	cityIdx := columnIndex(sheet.Columns, cityAliases)
	provIdx := columnIndex(sheet.Columns, provinceAliases)
	countryIdx := columnIndex(sheet.Columns, countryAliases)
	emailIdx := columnIndex(sheet.Columns, emailAliases)
	phoneIdx := columnIndex(sheet.Columns, phoneAliases)

	out := make([]entity.ContactRecord, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		name := cell(row, nameIdx)
		if name == "" {
			continue
		}
		cp := cell(row, postalIdx)
		if len(cp) > 5 {
			cp = cp[:5]
		}
		out = append(out, entity.ContactRecord{
			Name:       name,
			TaxID:      cell(row, taxIdx),
			Address:    cell(row, addrIdx),
			PostalCode: cp,
			City:       cell(row, cityIdx),
			Province:   cell(row, provIdx),
			Country:    cell(row, countryIdx),
			Email:      cell(row, emailIdx),
			Phone:      cell(row, phoneIdx),
		})
	}
	return out
}

// Formatos de fecha que aparecen en los exports reales de Eholo y gestoría.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"01-02-06", // serie corta que produce excelize con celdas de fecha sin formato
}

// ParseDate interpreta la celda de fecha con los formatos conocidos.
// Devuelve el cero de time.Time si no se puede interpretar.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseAmount interpreta un importe con separador decimal de coma o punto.
// Importes irresolubles valen cero en lugar de tumbar la exportación.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSpace(s)
	// "1.234,56" → "1234.56"; "1234.56" se deja tal cual
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
