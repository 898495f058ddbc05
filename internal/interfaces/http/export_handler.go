package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/enplural/konyx-api/internal/application/dto"
	"github.com/enplural/konyx-api/internal/application/exporting"
	"github.com/enplural/konyx-api/internal/domain"
	"github.com/enplural/konyx-api/internal/domain/entity"
)

// ExportHandler maneja el arranque de exportaciones, el flujo de progreso
// SSE y la descarga de artefactos.
type ExportHandler struct {
	uc        *exporting.ExportUseCase
	exportDir string
}

// NewExportHandler construye el handler de exportación.
func NewExportHandler(uc *exporting.ExportUseCase, exportDir string) *ExportHandler {
	return &ExportHandler{uc: uc, exportDir: exportDir}
}

// Start lanza una exportación completa con los dos archivos subidos.
// La ejecución es síncrona: la respuesta llega con el resultado terminal,
// y el detalle paso a paso se sigue por GET /api/export/progress.
// POST /api/export/start (multipart/form-data)
func (h *ExportHandler) Start(c *fiber.Ctx) error {
	var in dto.ExportStartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido"})
	}

	sessions, err := readUpload(c, "ficheroSesiones")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta el fichero de sesiones"})
	}
	contacts, err := readUpload(c, "ficheroContactos")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta el fichero de contactos"})
	}

	fuzzy := strings.EqualFold(c.FormValue("fuzzy"), "true")
	outcome := h.uc.Run(c.Context(), exporting.Input{
		Request:  in,
		Sessions: sessions,
		Contacts: contacts,
		Fuzzy:    fuzzy,
	})

	if !outcome.Succeeded() {
		status := fiber.StatusBadRequest
		code := "INPUT_REJECTED"
		switch {
		case errors.Is(outcome.Err, domain.ErrExportRunning):
			status = fiber.StatusConflict
			code = "EXPORT_RUNNING"
		case outcome.Failure == entity.FailurePipeline:
			status = fiber.StatusInternalServerError
			code = "PIPELINE"
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: outcome.Err.Error()})
	}

	return c.JSON(dto.ExportStartResponse{
		Status:   "ok",
		File:     outcome.Artifact,
		Sessions: outcome.SessionRows,
		Invoices: outcome.InvoiceCount,
	})
}

// Progress abre el flujo SSE de la ejecución en curso: primero reproduce
// todos los eventos ya emitidos y después envía los nuevos hasta el evento
// terminal.
// GET /api/export/progress
func (h *ExportHandler) Progress(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	backlog, events, cancel := h.uc.Reporter().Subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for _, ev := range backlog {
			if !writeSSE(w, ev) {
				return
			}
		}
		for ev := range events {
			if !writeSSE(w, ev) {
				return
			}
		}
	}))
	return nil
}

// writeSSE serializa un evento en formato SSE y lo envía. Devuelve false si
// el cliente se ha desconectado.
func writeSSE(w *bufio.Writer, ev dto.ProgressEvent) bool {
	data, err := json.Marshal(ev)
	if err != nil {
		return false
	}
	if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}

// Download sirve un artefacto generado previamente.
// GET /api/export/download/:filename
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	filename := c.Params("filename")
	// Solo nombres planos: nada de separadores ni rutas relativas
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre de archivo inválido"})
	}
	path := filepath.Join(h.exportDir, filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	return c.Download(path, filename)
}

// readUpload lee el contenido completo de un file part del formulario.
func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fh)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
