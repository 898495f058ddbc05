package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/enplural/konyx-api/internal/domain"
	"github.com/enplural/konyx-api/internal/domain/entity"
	"github.com/enplural/konyx-api/internal/domain/export"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// renderContext contexto fijo con nombres de artefacto deterministas.
func renderContext() export.Context {
	return export.Context{
		Company:       "En Plural Psicología",
		BillingDate:   billingMarch2025,
		Project:       "En Plural",
		LedgerAccount: "70500000",
		Timestamped:   false,
	}
}

// sampleGroups dos facturas: Ana con dos sesiones y contacto completo, Luis
// con una sesión y sin contacto.
func sampleGroups() []entity.InvoiceGroup {
	ana := entity.ContactRecord{
		Name: "Ana Pérez", TaxID: "12345678Z", Address: "Calle Mayor 1",
		PostalCode: "28001", City: "Madrid", Province: "Madrid",
		Email: "ana@example.com", Phone: "600111222",
	}
	rows := []entity.MergedRow{
		{Session: session("Ana Pérez", "05/03/2025", "50"), Contact: ana, Matched: true},
		{Session: session("Ana Pérez", "12/03/2025", "50"), Contact: ana, Matched: true},
		{Session: session("Luis Gómez", "07/03/2025", "60")},
	}
	return export.Group(rows, billingMarch2025, export.GroupOptions{AutoNumber: true})
}

// parseCSV interpreta los bytes del artefacto: comprueba el BOM y devuelve
// todas las filas (cabecera incluida).
func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "el CSV debe llevar BOM UTF-8")
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

// ── ParseTarget ───────────────────────────────────────────────────────────────

func TestParseTarget_VariantesAdmitidas(t *testing.T) {
	for _, s := range []string{"gestoria", "Gestoría", " GESTORIA "} {
		target, err := export.ParseTarget(s)
		require.NoError(t, err)
		assert.Equal(t, export.TargetGestoria, target)
	}
	target, err := export.ParseTarget("holded")
	require.NoError(t, err)
	assert.Equal(t, export.TargetHolded, target)

	target, err = export.ParseTarget("gestoria-excel")
	require.NoError(t, err)
	assert.Equal(t, export.TargetGestoriaExcel, target)
}

func TestParseTarget_Desconocido(t *testing.T) {
	_, err := export.ParseTarget("pdf")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

// ── CSV gestoría ──────────────────────────────────────────────────────────────

func TestRenderGestoriaCSV_UnaLineaPorFactura(t *testing.T) {
	data, filename, err := export.RenderGestoriaCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	assert.Equal(t, "En_Plural_Psicolog_a_gestoria_2025-03-31.csv", filename)

	records := parseCSV(t, data)
	require.Len(t, records, 3, "cabecera + una línea por grupo de factura")
	assert.Equal(t, export.GestoriaColumns, records[0])
	for _, row := range records[1:] {
		assert.Len(t, row, len(export.GestoriaColumns))
	}
}

func TestRenderGestoriaCSV_ImporteTotalDelGrupo(t *testing.T) {
	data, _, err := export.RenderGestoriaCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)

	ana := records[1]
	assert.Equal(t, "F25030001", ana[0])
	assert.Equal(t, "Ana Pérez", ana[1])
	assert.Equal(t, "Servicios de Psicoterapia", ana[2])
	assert.Equal(t, "0", ana[3], "servicios sanitarios exentos: IVA siempre cero")
	assert.Equal(t, "100.00", ana[4], "el importe es el total del grupo, no el de una sesión")
	assert.Equal(t, "31/03/2025", ana[5])
	assert.Equal(t, "12345678Z", ana[10])
}

// Sin contacto, los campos fiscales salen vacíos y el país cae al valor por
// defecto. Ninguna columna se omite.
func TestRenderGestoriaCSV_SinContactoCamposVacios(t *testing.T) {
	data, _, err := export.RenderGestoriaCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)

	luis := records[2]
	assert.Equal(t, "Luis Gómez", luis[1])
	assert.Empty(t, luis[10], "NIF vacío sin contacto")
	assert.Equal(t, "España", luis[17])
}

func TestRenderGestoriaCSV_SinGruposSoloCabecera(t *testing.T) {
	data, _, err := export.RenderGestoriaCSV(nil, renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)
	require.Len(t, records, 1)
	assert.Equal(t, export.GestoriaColumns, records[0])
}

// ── CSV Holded ────────────────────────────────────────────────────────────────

func TestRenderHoldedCSV_UnaLineaPorSesion(t *testing.T) {
	data, filename, err := export.RenderHoldedCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	assert.Equal(t, "En_Plural_Psicolog_a_holded_2025-03-31.csv", filename)

	records := parseCSV(t, data)
	require.Len(t, records, 4, "cabecera + una línea por sesión")
	assert.Equal(t, export.HoldedColumns, records[0])
	for _, row := range records[1:] {
		assert.Len(t, row, len(export.HoldedColumns))
	}
}

// Las líneas de un mismo grupo repiten idénticos los campos de cabecera de
// la factura; el detalle y el precio son los de cada sesión.
func TestRenderHoldedCSV_CabeceraRepetidaPorGrupo(t *testing.T) {
	data, _, err := export.RenderHoldedCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)

	primera, segunda := records[1], records[2]
	assert.Equal(t, "F25030001", primera[0])
	assert.Equal(t, primera[0], segunda[0], "mismo número de factura en las dos sesiones de Ana")
	assert.Equal(t, primera[5], segunda[5], "mismo contacto")
	assert.Equal(t, "50.00", primera[15], "precio unidad por sesión")
	assert.NotEqual(t, primera[13], segunda[13], "el detalle lleva la fecha de cada sesión")

	tercera := records[3]
	assert.Equal(t, "F25030002", tercera[0])
	assert.Equal(t, "60.00", tercera[15])
}

func TestRenderHoldedCSV_CamposFijos(t *testing.T) {
	data, _, err := export.RenderHoldedCSV(sampleGroups(), renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)

	row := records[1]
	assert.Equal(t, "F{yy}{mm}{num:04d}", row[1])
	assert.Equal(t, "31/03/2025", row[2])
	assert.Equal(t, "0", row[18], "IVA %")
	assert.Equal(t, "Transferencia", row[22])
	assert.Equal(t, "#en-plural", row[26])
	assert.Equal(t, "EUR", row[29])
}

// En modo borrador el número de factura va vacío y Holded numera.
func TestRenderHoldedCSV_BorradorSinNumero(t *testing.T) {
	rows := []entity.MergedRow{{Session: session("Ana Pérez", "05/03/2025", "50")}}
	groups := export.Group(rows, billingMarch2025, export.GroupOptions{AutoNumber: false})

	data, _, err := export.RenderHoldedCSV(groups, renderContext())
	require.NoError(t, err)
	records := parseCSV(t, data)
	require.Len(t, records, 2)
	assert.Empty(t, records[1][0])
	assert.Equal(t, "F{yy}{mm}{num:04d}", records[1][1])
}

// ── XLSX gestoría ─────────────────────────────────────────────────────────────

func TestRenderGestoriaXLSX_DetallePorSesion(t *testing.T) {
	data, filename, err := export.RenderGestoriaXLSX(sampleGroups(), renderContext())
	require.NoError(t, err)
	assert.Equal(t, "En_Plural_Psicolog_a_gestoria-excel_2025-03-31.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturas Gestoría")
	require.NoError(t, err)
	require.Len(t, rows, 4, "cabecera + una línea por sesión")
	assert.Equal(t, export.GestoriaDetailColumns, rows[0])

	assert.Equal(t, "F25030001", rows[1][0])
	assert.Equal(t, "Ana Pérez", rows[1][1])
	assert.Equal(t, "50.00", rows[1][13], "base imponible de la sesión")
	assert.Equal(t, "F25030002", rows[3][0])
}

// ── Nombre del artefacto ──────────────────────────────────────────────────────

// Con Timestamped activo el nombre lleva formato y marca de tiempo únicos.
func TestRender_NombreConMarcaDeTiempo(t *testing.T) {
	ctx := renderContext()
	ctx.Timestamped = true

	_, filename, err := export.Render(export.TargetGestoria, sampleGroups(), ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "gestoria_export_"), filename)
	assert.True(t, strings.HasSuffix(filename, ".csv"), filename)
}

func TestRender_FormatoDesconocido(t *testing.T) {
	_, _, err := export.Render(export.Target("pdf"), sampleGroups(), renderContext())
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}
