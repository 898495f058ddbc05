package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/enplural/konyx-api/internal/application/dto"
	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain/schema"
)

// ConvertHandler valida un archivo subido contra los formatos conocidos
// antes de la exportación propiamente dicha.
type ConvertHandler struct {
	reader ports.SheetReader
}

// NewConvertHandler construye el handler de validación previa.
func NewConvertHandler(reader ports.SheetReader) *ConvertHandler {
	return &ConvertHandler{reader: reader}
}

// Process recibe un archivo y clasifica su formato por las cabeceras.
// POST /api/convert/procesar (multipart/form-data, campo "file")
func (h *ConvertHandler) Process(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta el archivo"})
	}
	data, err := readMultipartFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}

	sheet, err := h.reader.Read(data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "error al leer el archivo. Asegúrate de que sea un Excel válido"})
	}

	format := schema.Detect(sheet.Columns)
	if format == schema.FormatUnknown {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_FORMAT", Message: "formato desconocido o columnas no válidas"})
	}

	return c.JSON(dto.DetectResponse{
		Message:        fmt.Sprintf("Archivo '%s' validado correctamente", fh.Filename),
		DetectedFormat: string(format),
	})
}
