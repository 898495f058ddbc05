package entity

// FailureKind clasifica el fallo terminal de una ejecución de exportación.
type FailureKind string

const (
	FailureNone     FailureKind = ""
	FailureInput    FailureKind = "input_rejected" // columnas mal, archivo vacío, formato indetectable
	FailurePipeline FailureKind = "pipeline"       // archivo ilegible o error interno no recuperable
)

// RunOutcome es el estado terminal de una ejecución: o bien un artefacto con
// sus recuentos, o bien un fallo tipificado. Se finaliza exactamente una vez.
type RunOutcome struct {
	Artifact     string // nombre del archivo generado
	SessionRows  int
	InvoiceCount int
	Failure      FailureKind
	Err          error
}

// Succeeded indica si la ejecución terminó con artefacto.
func (o RunOutcome) Succeeded() bool { return o.Failure == FailureNone && o.Err == nil }
