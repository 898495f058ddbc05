package dto

// ExportStartRequest campos del formulario multipart de POST /api/export/start.
// Los dos archivos (ficheroSesiones, ficheroContactos) viajan aparte como
// file parts.
type ExportStartRequest struct {
	FormatoImport string `form:"formatoImport"`
	FormatoExport string `form:"formatoExport"`
	Empresa       string `form:"empresa"`
	FechaFactura  string `form:"fechaFactura"` // YYYY-MM-DD
	Proyecto      string `form:"proyecto"`
	Cuenta        string `form:"cuenta"`
	Usuario       string `form:"usuario"`
	Borrador      bool   `form:"borrador"` // modo borrador: la plataforma numera
}

// ExportStartResponse respuesta inmediata de POST /api/export/start.
type ExportStartResponse struct {
	Status   string `json:"status"`
	File     string `json:"file,omitempty"`
	Sessions int    `json:"sessions,omitempty"`
	Invoices int    `json:"invoices,omitempty"`
}

// ProgressEvent evento del flujo de progreso (SSE). La secuencia es una
// serie ordenada de eventos "log" cerrada por exactamente un evento "end".
type ProgressEvent struct {
	Type  string `json:"type"`            // "log" | "end"
	Step  string `json:"step,omitempty"`  // mensaje legible del paso
	File  string `json:"file,omitempty"`  // solo en "end" con éxito
	Error string `json:"error,omitempty"` // solo en "end" con fallo
}

// DetectResponse respuesta de POST /api/convert/procesar.
type DetectResponse struct {
	Message        string `json:"message"`
	DetectedFormat string `json:"formato_detectado"`
}
