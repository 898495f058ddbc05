package exporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain/entity"
)

// provincePrompt es la única información que sale del proceso: el código
// postal. Ningún otro dato personal viaja al servicio externo.
const provincePrompt = "Indica la provincia de España correspondiente al código postal %s. Responde solo con el nombre."

// Enricher completa campos fiscales vacíos de los contactos consultando el
// servicio de completado de texto. Un fallo de enriquecimiento nunca es
// fatal para el pipeline: el campo queda vacío y se emite un aviso.
type Enricher struct {
	llm     ports.LLMService
	timeout time.Duration
}

// NewEnricher construye el enriquecedor. timeout acota cada llamada externa.
func NewEnricher(llm ports.LLMService, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Enricher{llm: llm, timeout: timeout}
}

// Enrich recorre los contactos en orden y devuelve la misma secuencia con
// los campos completados donde se pudo. Cada campo faltante genera una
// petición propia (nunca en lote). Los avisos se deduplican por paciente:
// varios campos faltantes de un mismo contacto producen un único aviso de
// contacto incompleto, emitido vía logStep.
func (e *Enricher) Enrich(ctx context.Context, contacts []entity.ContactRecord, logStep func(string)) []entity.ContactRecord {
	for i := range contacts {
		c := &contacts[i]

		if c.Province == "" && len(c.PostalCode) == 5 {
			if prov := e.completeProvince(ctx, c.PostalCode); prov != "" {
				c.Province = prov
				logStep(fmt.Sprintf("Provincia completada (%s → %s)", c.Name, prov))
			}
		}

		if missing := missingFields(c); len(missing) > 0 {
			logStep(fmt.Sprintf("Aviso: %s: contacto incompleto (falta %s)", c.Name, strings.Join(missing, ", ")))
		}
	}
	return contacts
}

// completeProvince pregunta por la provincia de un código postal.
// Cualquier fallo (sin credencial, red, respuesta vacía) devuelve "".
func (e *Enricher) completeProvince(ctx context.Context, postalCode string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.llm.Complete(callCtx, fmt.Sprintf(provincePrompt, postalCode))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(answer)
}

// missingFields lista los campos fiscales aún vacíos tras el enriquecimiento.
func missingFields(c *entity.ContactRecord) []string {
	var out []string
	if c.TaxID == "" {
		out = append(out, "NIF")
	}
	if c.Address == "" {
		out = append(out, "dirección")
	}
	if c.City == "" {
		out = append(out, "población")
	}
	if c.Province == "" {
		out = append(out, "provincia")
	}
	return out
}
