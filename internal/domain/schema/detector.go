package schema

import "strings"

// Tokens que delatan cada variante del libro de sesiones. La comparación es
// por subcadena sobre el nombre normalizado, no por igualdad exacta.
var (
	eholoTokens    = []string{"fecha", "iva", "total"}
	gestoriaTokens = []string{"fecha factura", "numero factura", "nif", "importe base", "total"}
)

// gestoriaMinMatches mínimo de tokens de gestoría presentes para declarar la variante B.
const gestoriaMinMatches = 4

// Detect clasifica unas cabeceras en una de las variantes conocidas del
// libro de sesiones mirando solo los nombres de columna. Es una heurística:
// las reglas se evalúan en orden de prioridad (Eholo antes que Gestoría),
// así que un archivo que por casualidad cumpla ambas resuelve a Eholo; si no
// cumple ninguna devuelve FormatUnknown y el caller debe rechazar la subida.
func Detect(columns []string) Format {
	cols := NormalizeAll(columns)

	if containsAll(cols, eholoTokens) {
		return FormatEholoSessions
	}
	if countMatches(cols, gestoriaTokens) >= gestoriaMinMatches {
		return FormatGestoriaSessions
	}
	return FormatUnknown
}

// containsAll indica si cada token aparece como subcadena de alguna columna.
func containsAll(cols, tokens []string) bool {
	for _, t := range tokens {
		if !anyContains(cols, t) {
			return false
		}
	}
	return true
}

// countMatches cuenta cuántos tokens aparecen como subcadena de alguna columna.
func countMatches(cols, tokens []string) int {
	n := 0
	for _, t := range tokens {
		if anyContains(cols, t) {
			n++
		}
	}
	return n
}

func anyContains(cols []string, token string) bool {
	for _, c := range cols {
		if strings.Contains(c, token) {
			return true
		}
	}
	return false
}
