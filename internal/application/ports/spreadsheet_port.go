package ports

import "github.com/enplural/konyx-api/internal/domain/schema"

// SheetReader define el puerto de lectura de hojas de cálculo subidas:
// bytes del archivo → cabeceras + filas en texto. El adaptador concreto
// decide qué formatos de archivo admite (XLSX).
type SheetReader interface {
	Read(data []byte) (schema.Sheet, error)
}
