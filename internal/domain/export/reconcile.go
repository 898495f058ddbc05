// Package export contiene el núcleo puro del pipeline: reconciliación de
// sesiones con contactos, agrupación en facturas y renderizado de los
// formatos de salida. Sin E/S ni estado compartido.
package export

import (
	"github.com/agnivade/levenshtein"

	"github.com/enplural/konyx-api/internal/domain/entity"
	"github.com/enplural/konyx-api/internal/domain/schema"
)

// ReconcileOptions opciones del join sesiones ⋈ contactos.
// Fuzzy habilita el emparejamiento por similitud de nombres; está apagado
// por defecto: un nombre mal escrito es un no-match que se avisa después
// como "contacto incompleto", no se corrige en silencio.
type ReconcileOptions struct {
	Fuzzy       bool
	MaxDistance int // distancia Levenshtein máxima admitida (por defecto 2)
	MinLength   int // longitud mínima del nombre para intentar fuzzy (por defecto 5)
}

const (
	defaultFuzzyDistance = 2
	defaultFuzzyMinLen   = 5
)

// Reconcile hace left join de cada sesión con a lo sumo un contacto, por
// nombre de paciente normalizado. Una sesión sin contacto no se descarta:
// se emite con los campos de contacto vacíos, porque los formatos de
// facturación deben facturar igualmente con la identidad que se conozca.
func Reconcile(sessions []entity.SessionRecord, contacts []entity.ContactRecord, opts ReconcileOptions) []entity.MergedRow {
	byName := make(map[string]entity.ContactRecord, len(contacts))
	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		key := schema.NormalizeName(c.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = c
			names = append(names, key)
		}
	}

	rows := make([]entity.MergedRow, 0, len(sessions))
	for _, s := range sessions {
		key := schema.NormalizeName(s.Patient)
		contact, ok := byName[key]
		if !ok && opts.Fuzzy {
			contact, ok = closestContact(key, names, byName, opts)
		}
		rows = append(rows, entity.MergedRow{Session: s, Contact: contact, Matched: ok})
	}
	return rows
}

// closestContact busca el contacto con menor distancia Levenshtein dentro
// del umbral. Empates resuelven al primero en orden de registro.
func closestContact(key string, names []string, byName map[string]entity.ContactRecord, opts ReconcileOptions) (entity.ContactRecord, bool) {
	maxDist := opts.MaxDistance
	if maxDist <= 0 {
		maxDist = defaultFuzzyDistance
	}
	minLen := opts.MinLength
	if minLen <= 0 {
		minLen = defaultFuzzyMinLen
	}
	if len(key) < minLen {
		return entity.ContactRecord{}, false
	}

	best := ""
	bestDist := maxDist + 1
	for _, n := range names {
		if d := levenshtein.ComputeDistance(key, n); d < bestDist {
			bestDist = d
			best = n
		}
	}
	if best == "" || bestDist > maxDist {
		return entity.ContactRecord{}, false
	}
	return byName[best], true
}
