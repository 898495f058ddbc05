package entity

// Settings es el estado persistente de la aplicación: credencial del panel,
// claves API y contadores de ejecuciones. Se guarda como un único documento
// JSON plano (data.json); el pipeline solo lee e incrementa contadores.
type Settings struct {
	PasswordHash       string `json:"passwordHash"`
	APIKissoro         string `json:"apiKissoro"`
	APIEnPlural        string `json:"apiEnPlural"`
	APIGroq            string `json:"apiGroq"`
	LastExport         string `json:"ultimoExport"` // RFC3339 o "-" si nunca
	TotalExports       int    `json:"totalExportaciones"`
	TotalFailedExports int    `json:"totalExportacionesFallidas"`
	FailedLogins       int    `json:"intentosLoginFallidos"`
}
