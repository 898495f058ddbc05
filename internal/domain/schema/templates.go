package schema

// Format identifica una plantilla de entrada conocida.
type Format string

const (
	// FormatEholoSessions libro de sesiones exportado desde Eholo (variante A).
	FormatEholoSessions Format = "eholo"
	// FormatGestoriaSessions libro de sesiones en formato gestoría (variante B).
	FormatGestoriaSessions Format = "gestoria"
	// FormatEholoContacts registro de contactos exportado desde Eholo.
	FormatEholoContacts Format = "contactos-eholo"
	// FormatUnknown el archivo no corresponde a ninguna plantilla conocida.
	FormatUnknown Format = ""
)

// Template es una plantilla de columnas esperada. Columns conserva los
// nombres originales de la plantilla oficial; la comparación se hace siempre
// sobre los nombres normalizados.
type Template struct {
	Name    string
	Format  Format
	Columns []string
}

// Plantilla oficial del libro de sesiones de Eholo.
var EholoSessionsTemplate = Template{
	Name:   "sesiones Eholo",
	Format: FormatEholoSessions,
	Columns: []string{
		"Profesional",
		"Paciente",
		"DNI",
		"Comunicación",
		"Tipo",
		"Fecha",
		"Precio",
		"Comisión centro",
		"Comisión profesional",
		"Bonos",
		"Estado",
		"Método de pago",
		"Fecha de pago",
	},
}

// Plantilla oficial del libro de sesiones en formato gestoría.
var GestoriaSessionsTemplate = Template{
	Name:   "sesiones Gestoría",
	Format: FormatGestoriaSessions,
	Columns: []string{
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
	},
}

// Plantilla oficial del registro de contactos de Eholo.
var EholoContactsTemplate = Template{
	Name:   "contactos Eholo",
	Format: FormatEholoContacts,
	Columns: []string{
		"N. de ficha",
		"Profesional",
		"Nombre",
		"Teléfono",
		"Email",
		"Documento de identidad",
		"Estado",
		"Etiquetas",
		"Dirección",
		"Tipo de sesión",
	},
}

// TemplateFor devuelve la plantilla de sesiones asociada a un formato.
func TemplateFor(f Format) (Template, bool) {
	switch f {
	case FormatEholoSessions:
		return EholoSessionsTemplate, true
	case FormatGestoriaSessions:
		return GestoriaSessionsTemplate, true
	case FormatEholoContacts:
		return EholoContactsTemplate, true
	}
	return Template{}, false
}
