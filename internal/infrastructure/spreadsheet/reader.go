// Package spreadsheet adapta excelize al puerto de lectura de hojas de
// cálculo: bytes de un XLSX subido → cabeceras + filas en texto.
package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain/schema"
)

// Verificar en tiempo de compilación que Reader implementa SheetReader.
var _ ports.SheetReader = (*Reader)(nil)

// Reader lee la primera hoja de un libro XLSX. La primera fila es la
// cabecera; el resto, datos. Las celdas llegan como texto con el formato
// aplicado, igual que las muestra la hoja de cálculo.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// Read parsea el contenido del archivo subido.
func (r *Reader) Read(data []byte) (schema.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return schema.Sheet{}, fmt.Errorf("abrir el libro: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return schema.Sheet{}, fmt.Errorf("el libro no tiene hojas")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return schema.Sheet{}, fmt.Errorf("leer la hoja %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return schema.Sheet{}, nil
	}
	return schema.Sheet{Columns: rows[0], Rows: rows[1:]}, nil
}
