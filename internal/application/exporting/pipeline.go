package exporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enplural/konyx-api/internal/application/dto"
	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain"
	"github.com/enplural/konyx-api/internal/domain/entity"
	"github.com/enplural/konyx-api/internal/domain/export"
	"github.com/enplural/konyx-api/internal/domain/schema"
	"github.com/enplural/konyx-api/pkg/logger"
)

// Config parámetros de la exportación.
type Config struct {
	ExportDir       string
	TimestampFiles  bool
	ExternalTimeout time.Duration // tope por llamada a la plataforma de facturación
}

// Input entrada completa de una ejecución: el formulario y el contenido de
// los dos archivos subidos.
type Input struct {
	Request  dto.ExportStartRequest
	Sessions []byte
	Contacts []byte
	Fuzzy    bool // emparejamiento por similitud de nombres (extensión opcional)
}

// ExportUseCase ejecuta el pipeline completo de exportación. Una ejecución
// es secuencial y síncrona; solo puede haber una activa por proceso para
// que dos ejecuciones no intercalen eventos en el mismo registro.
type ExportUseCase struct {
	reader   ports.SheetReader
	store    ports.SettingsStore
	enricher *Enricher
	platform ports.InvoicingPlatform
	reporter *Reporter
	log      *logger.Logger
	cfg      Config

	mu      sync.Mutex
	running bool
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	reader ports.SheetReader,
	store ports.SettingsStore,
	enricher *Enricher,
	platform ports.InvoicingPlatform,
	reporter *Reporter,
	log *logger.Logger,
	cfg Config,
) *ExportUseCase {
	if cfg.ExternalTimeout <= 0 {
		cfg.ExternalTimeout = 15 * time.Second
	}
	return &ExportUseCase{
		reader:   reader,
		store:    store,
		enricher: enricher,
		platform: platform,
		reporter: reporter,
		log:      log,
		cfg:      cfg,
	}
}

// Reporter expone el flujo de progreso para los suscriptores SSE.
func (uc *ExportUseCase) Reporter() *Reporter { return uc.reporter }

// Run ejecuta una exportación de principio a fin y devuelve su estado
// terminal. El caller siempre recibe o bien un artefacto con sus recuentos
// o bien un fallo tipificado con causa legible; nunca un éxito parcial sin
// etiquetar.
func (uc *ExportUseCase) Run(ctx context.Context, in Input) entity.RunOutcome {
	uc.mu.Lock()
	if uc.running {
		uc.mu.Unlock()
		return entity.RunOutcome{Failure: entity.FailureInput, Err: domain.ErrExportRunning}
	}
	uc.running = true
	uc.mu.Unlock()
	defer func() {
		uc.mu.Lock()
		uc.running = false
		uc.mu.Unlock()
	}()

	runID := uuid.NewString()
	uc.reporter.StartRun()
	req := in.Request
	uc.reporter.Log(fmt.Sprintf("Exportación iniciada por %s (%s)", req.Usuario, req.Empresa))
	uc.reporter.Log(fmt.Sprintf("Formato import: %s / export: %s", req.FormatoImport, req.FormatoExport))
	uc.log.Info().Str("run_id", runID).Str("company", req.Empresa).Str("user", req.Usuario).Msg("exportación iniciada")

	outcome := uc.run(ctx, in)

	uc.account(outcome)
	if outcome.Succeeded() {
		uc.reporter.Log(fmt.Sprintf("Artefacto generado correctamente: %s", outcome.Artifact))
		uc.reporter.End(outcome.Artifact)
		uc.log.Info().
			Str("run_id", runID).
			Str("file", outcome.Artifact).
			Int("sessions", outcome.SessionRows).
			Int("invoices", outcome.InvoiceCount).
			Msg("exportación completada")
	} else {
		uc.reporter.Log("Error: " + outcome.Err.Error())
		uc.reporter.Fail(outcome.Err)
		uc.log.Error().Err(outcome.Err).Str("run_id", runID).Str("kind", string(outcome.Failure)).Msg("exportación fallida")
	}
	return outcome
}

// run es el cuerpo del pipeline; separa el flujo feliz de la contabilidad y
// el cierre del reporter para que el terminal se emita exactamente una vez.
func (uc *ExportUseCase) run(ctx context.Context, in Input) entity.RunOutcome {
	req := in.Request

	target, err := export.ParseTarget(req.FormatoExport)
	if err != nil {
		return failInput(fmt.Errorf("formato de exportación desconocido: %s", req.FormatoExport))
	}

	billingDate, err := parseBillingDate(req.FechaFactura)
	if err != nil {
		return failInput(err)
	}

	sessionsSheet, err := uc.reader.Read(in.Sessions)
	if err != nil {
		return failPipeline(fmt.Errorf("leer el archivo de sesiones: %w", err))
	}
	contactsSheet, err := uc.reader.Read(in.Contacts)
	if err != nil {
		return failPipeline(fmt.Errorf("leer el archivo de contactos: %w", err))
	}
	if sessionsSheet.IsEmpty() || contactsSheet.IsEmpty() {
		return failInput(domain.ErrEmptySheet)
	}
	uc.reporter.Log("Archivos cargados correctamente")

	if err := uc.checkSchemas(req.FormatoImport, sessionsSheet, contactsSheet); err != nil {
		return failInput(err)
	}
	uc.reporter.Log("Plantillas validadas")

	sessions := schema.ParseSessions(sessionsSheet)
	contacts := schema.ParseContacts(contactsSheet)
	uc.reporter.Log(fmt.Sprintf("%d sesiones y %d contactos leídos", len(sessions), len(contacts)))

	contacts = uc.enricher.Enrich(ctx, contacts, uc.reporter.Log)

	merged := export.Reconcile(sessions, contacts, export.ReconcileOptions{Fuzzy: in.Fuzzy})
	uc.reporter.Log("Reconciliación completada")

	groups := export.Group(merged, billingDate, export.GroupOptions{AutoNumber: !req.Borrador})
	uc.reporter.Log(fmt.Sprintf("%d facturas agrupadas", len(groups)))

	renderCtx := export.Context{
		Company:       req.Empresa,
		BillingDate:   billingDate,
		Project:       req.Proyecto,
		LedgerAccount: req.Cuenta,
		Timestamped:   uc.cfg.TimestampFiles,
	}
	data, filename, err := export.Render(target, groups, renderCtx)
	if err != nil {
		return failPipeline(fmt.Errorf("generar el artefacto: %w", err))
	}
	if err := uc.writeArtifact(filename, data); err != nil {
		return failPipeline(err)
	}

	// El CSV local es siempre el respaldo de registro: se envía a la
	// plataforma después de tener el artefacto en disco.
	if target == export.TargetHolded {
		uc.submitToPlatform(ctx, groups, req, billingDate)
	}

	return entity.RunOutcome{
		Artifact:     filename,
		SessionRows:  len(merged),
		InvoiceCount: len(groups),
	}
}

// checkSchemas valida las cabeceras de los dos archivos. El registro de
// contactos siempre valida contra su única plantilla. El libro de sesiones
// valida estricto contra la plantilla declarada; si el caller no declara
// formato ("auto" o vacío) se clasifica por heurística y se rechaza solo si
// no casa con ninguna variante conocida.
func (uc *ExportUseCase) checkSchemas(declared string, sessions, contacts schema.Sheet) error {
	if err := schema.Validate(contacts.Columns, schema.EholoContactsTemplate); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "", "auto":
		if f := schema.Detect(sessions.Columns); f == schema.FormatUnknown {
			return domain.ErrUnknownFormat
		} else {
			uc.reporter.Log(fmt.Sprintf("Formato de sesiones detectado: %s", f))
		}
	case string(schema.FormatEholoSessions):
		if err := schema.Validate(sessions.Columns, schema.EholoSessionsTemplate); err != nil {
			return err
		}
	case string(schema.FormatGestoriaSessions):
		if err := schema.Validate(sessions.Columns, schema.GestoriaSessionsTemplate); err != nil {
			return err
		}
	default:
		return fmt.Errorf("formato de importación desconocido: %s", declared)
	}
	return nil
}

// writeArtifact escribe el artefacto de forma atómica: archivo temporal y
// rename. O existe el artefacto completo o no existe ninguno.
func (uc *ExportUseCase) writeArtifact(filename string, data []byte) error {
	if err := os.MkdirAll(uc.cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("crear el directorio de exportación: %w", err)
	}
	final := filepath.Join(uc.cfg.ExportDir, filename)
	tmp, err := os.CreateTemp(uc.cfg.ExportDir, filename+".tmp*")
	if err != nil {
		return fmt.Errorf("crear el artefacto: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("escribir el artefacto: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cerrar el artefacto: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publicar el artefacto: %w", err)
	}
	return nil
}

// submitToPlatform crea una factura por grupo en la plataforma externa.
// Cada grupo es independiente: un rechazo se avisa nombrando al paciente y
// se continúa con el siguiente. Entre grupos se comprueba la cancelación.
func (uc *ExportUseCase) submitToPlatform(ctx context.Context, groups []entity.InvoiceGroup, req dto.ExportStartRequest, billingDate time.Time) {
	apiKey, companyName, err := uc.platformKey(req.Empresa)
	if err != nil {
		uc.reporter.Log(fmt.Sprintf("Aviso: empresa desconocida: %s. Se genera solo el CSV.", req.Empresa))
		return
	}
	if apiKey == "" {
		uc.reporter.Log(fmt.Sprintf("Aviso: no hay API configurada para %s. No se crearán facturas.", companyName))
		return
	}

	due := billingDate.Format("2006-01-02")
	tag := "#" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(req.Proyecto)), " ", "-")

	created := 0
	for i := range groups {
		if ctx.Err() != nil {
			uc.reporter.Log("Envío a la plataforma interrumpido")
			return
		}
		g := &groups[i]

		items := make([]ports.PlatformInvoiceItem, 0, len(g.Rows))
		for _, row := range g.Rows {
			items = append(items, ports.PlatformInvoiceItem{
				Name:        "Sesión de psicoterapia",
				Description: platformItemDetail(row.Session),
				Price:       row.Session.Price,
				Quantity:    1,
				Tax:         0,
			})
		}
		inv := ports.PlatformInvoice{
			ContactName: g.Patient,
			Concept:     "Servicios de Psicoterapia",
			Description: fmt.Sprintf("Servicios de psicoterapia (%s)", companyName),
			Items:       items,
			Currency:    "EUR",
			DueDate:     due,
			Tags:        []string{tag},
			Payment:     "Transferencia",
		}

		callCtx, cancel := context.WithTimeout(ctx, uc.cfg.ExternalTimeout)
		err := uc.platform.CreateInvoice(callCtx, apiKey, inv)
		cancel()
		if err != nil {
			uc.reporter.Log(fmt.Sprintf("Aviso: error creando factura de %s (%s): %v", g.Patient, companyName, err))
			continue
		}
		created++
		uc.reporter.Log(fmt.Sprintf("Factura creada en Holded (%s): %s", companyName, g.Patient))
	}
	uc.reporter.Log(fmt.Sprintf("Envío a Holded (%s) finalizado: %d/%d facturas creadas", companyName, created, len(groups)))
}

// platformKey resuelve la clave API de la plataforma según la empresa emisora.
func (uc *ExportUseCase) platformKey(company string) (apiKey, name string, err error) {
	settings, loadErr := uc.store.Load()
	if loadErr != nil {
		return "", "", loadErr
	}
	c := strings.ToLower(strings.TrimSpace(company))
	switch {
	case strings.HasPrefix(c, "kissoro"):
		return settings.APIKissoro, "Kissoro", nil
	case strings.HasPrefix(c, "en plural"):
		return settings.APIEnPlural, "En Plural Psicología", nil
	}
	return "", "", domain.ErrUnknownCompany
}

// account registra el resultado en los contadores persistentes. Un fallo
// del almacén no cambia el resultado de la ejecución: se deja en el log.
func (uc *ExportUseCase) account(outcome entity.RunOutcome) {
	settings, err := uc.store.Load()
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo cargar el estado para contabilizar la ejecución")
		return
	}
	if outcome.Succeeded() {
		settings.TotalExports++
		settings.LastExport = time.Now().Format(time.RFC3339)
	} else {
		settings.TotalFailedExports++
	}
	if err := uc.store.Save(settings); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar el estado tras la ejecución")
	}
}

// platformItemDetail detalle de una sesión en la factura de la plataforma.
func platformItemDetail(s entity.SessionRecord) string {
	date := s.RawDate
	if len(date) > 10 {
		date = date[:10]
	}
	detail := strings.TrimSpace(date + " - Sesión - " + s.Therapist)
	return strings.Trim(detail, " -")
}

// parseBillingDate admite los dos formatos que envía el panel.
func parseBillingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidDate
}

func failInput(err error) entity.RunOutcome {
	return entity.RunOutcome{Failure: entity.FailureInput, Err: err}
}

func failPipeline(err error) entity.RunOutcome {
	return entity.RunOutcome{Failure: entity.FailurePipeline, Err: err}
}
