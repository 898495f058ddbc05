package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/enplural/konyx-api/internal/domain"
	"github.com/enplural/konyx-api/internal/domain/entity"
)

// Target identifica un formato de exportación de salida.
type Target string

const (
	// TargetGestoria CSV contable de 19 columnas, una línea por factura.
	TargetGestoria Target = "gestoria"
	// TargetHolded CSV de importación de Holded, 32 columnas, una línea por sesión.
	TargetHolded Target = "holded"
	// TargetGestoriaExcel libro XLSX de detalle para gestoría, una línea por sesión.
	TargetGestoriaExcel Target = "gestoria-excel"
)

// ParseTarget interpreta el formato pedido por el caller.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gestoria", "gestoría":
		return TargetGestoria, nil
	case "holded":
		return TargetHolded, nil
	case "gestoria-excel", "gestoría-excel", "gestoria_excel":
		return TargetGestoriaExcel, nil
	}
	return "", domain.ErrUnknownFormat
}

// Constantes de negocio de los formatos de salida. El IVA es siempre cero:
// los servicios sanitarios están exentos, no se calcula impuesto.
const (
	conceptPsychotherapy = "Servicios de Psicoterapia"
	defaultCountry       = "España"
	defaultPayment       = "Transferencia"
	defaultCurrency      = "EUR"
	taxRateZero          = "0"
	numberingFormat      = "F{yy}{mm}{num:04d}"
)

// Context datos de cabecera comunes a toda la ejecución, aportados por el
// caller: empresa emisora, fecha de facturación del lote, proyecto y cuenta
// contable de destino.
type Context struct {
	Company       string
	BillingDate   time.Time
	Project       string
	LedgerAccount string
	// Timestamped elige el esquema de nombres del artefacto: true genera un
	// nombre único por ejecución; false un nombre fijo por empresa+formato+
	// fecha que sobrescribe la ejecución anterior. Ambos modos se usan.
	Timestamped bool
}

// Render produce el artefacto de salida para el formato pedido.
// Devuelve los bytes del artefacto y su nombre de archivo.
func Render(target Target, groups []entity.InvoiceGroup, ctx Context) ([]byte, string, error) {
	switch target {
	case TargetGestoria:
		return RenderGestoriaCSV(groups, ctx)
	case TargetHolded:
		return RenderHoldedCSV(groups, ctx)
	case TargetGestoriaExcel:
		return RenderGestoriaXLSX(groups, ctx)
	}
	return nil, "", domain.ErrUnknownFormat
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// sanitize limpia un fragmento para usarlo en el nombre del artefacto.
func sanitize(s string) string {
	return unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
}

// artifactName construye el nombre del artefacto según el modo configurado.
func artifactName(target Target, ctx Context, ext string) string {
	if ctx.Timestamped {
		return fmt.Sprintf("%s_export_%s.%s", target, time.Now().Format("20060102_150405"), ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s",
		sanitize(ctx.Company), sanitize(string(target)), ctx.BillingDate.Format("2006-01-02"), ext)
}

// writeCSV serializa las filas como CSV separado por ';' en UTF-8 con BOM.
// Los consumidores parsean por posición fija o por cabecera exacta, así que
// cada fila lleva siempre el juego completo de columnas.
func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xef\xbb\xbf") // BOM para que Excel abra el CSV como UTF-8

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sessionDetail arma la línea de detalle de una sesión: fecha, tipo y terapeuta.
func sessionDetail(s entity.SessionRecord) string {
	date := s.RawDate
	if len(date) > 10 {
		date = date[:10]
	}
	kind := s.ServiceType
	if kind == "" {
		kind = "Sesión"
	}
	detail := strings.TrimSpace(fmt.Sprintf("%s - %s - %s", date, kind, s.Therapist))
	return strings.Trim(detail, " -")
}
