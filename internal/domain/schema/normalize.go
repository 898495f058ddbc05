// Package schema valida y clasifica las cabeceras de los archivos de entrada
// (libro de sesiones y registro de contactos) y parsea sus filas a registros
// tipados mediante una tabla declarativa de alias de columnas.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unnamedPrefix es el prefijo que los lectores de hojas de cálculo asignan a
// las columnas cuya celda de cabecera está vacía.
const unnamedPrefix = "unnamed"

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize normaliza un nombre de columna para comparación: recorta
// espacios, pasa a minúsculas y elimina tildes (á→a, é→e, í→i, ó→o, ú→u).
func Normalize(col string) string {
	s := strings.ToLower(strings.TrimSpace(col))
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeAll normaliza una lista de cabeceras descartando las columnas
// "unnamed" (cabecera en blanco en el archivo original).
func NormalizeAll(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(c)), unnamedPrefix) {
			continue
		}
		out = append(out, Normalize(c))
	}
	return out
}

// NormalizeName normaliza un nombre de persona para usarlo como clave de
// join: minúsculas, sin tildes y con los espacios interiores colapsados.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(Normalize(name)), " ")
}
