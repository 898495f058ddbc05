package schema

import (
	"fmt"
	"strings"
)

// SchemaError describe por qué unas cabeceras no cumplen una plantilla.
// Lista todas las columnas ofensivas de la primera regla violada (faltantes →
// sobrantes → orden) para que el archivo se pueda corregir en una sola pasada.
type SchemaError struct {
	Template string   // nombre de la plantilla esperada
	Missing  []string // columnas requeridas ausentes
	Extra    []string // columnas no esperadas
	Disorder bool     // mismas columnas pero en otro orden
}

// Error implementa error.
func (e *SchemaError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("el archivo de %s no tiene todas las columnas requeridas. Faltan: %s",
			e.Template, strings.Join(e.Missing, ", "))
	case len(e.Extra) > 0:
		return fmt.Sprintf("el archivo de %s tiene columnas no esperadas: %s",
			e.Template, strings.Join(e.Extra, ", "))
	case e.Disorder:
		return fmt.Sprintf("el orden de las columnas no coincide exactamente con la plantilla de %s", e.Template)
	}
	return fmt.Sprintf("el archivo de %s no cumple la plantilla", e.Template)
}

// Validate comprueba que las cabeceras (en su orden original) cumplan la
// plantilla exacta. Chequeo puro, sin efectos: normaliza, descarta columnas
// "unnamed" y compara contra la plantilla normalizada. Corta en la primera
// regla violada, en orden faltantes → sobrantes → orden posicional.
func Validate(columns []string, tpl Template) *SchemaError {
	cols := NormalizeAll(columns)
	expected := make([]string, len(tpl.Columns))
	for i, c := range tpl.Columns {
		expected[i] = Normalize(c)
	}

	missing := difference(expected, cols)
	if len(missing) > 0 {
		return &SchemaError{Template: tpl.Name, Missing: missing}
	}

	extra := difference(cols, expected)
	if len(extra) > 0 {
		return &SchemaError{Template: tpl.Name, Extra: extra}
	}

	for i := range expected {
		if cols[i] != expected[i] {
			return &SchemaError{Template: tpl.Name, Disorder: true}
		}
	}
	return nil
}

// difference devuelve los elementos de a que no están en b, en el orden de a.
func difference(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
