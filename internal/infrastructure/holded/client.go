// Package holded adapta la API de facturación de Holded al puerto
// InvoicingPlatform: una llamada de creación de documento por grupo de
// factura.
package holded

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/enplural/konyx-api/internal/application/ports"
)

// Verificar en tiempo de compilación que Client implementa InvoicingPlatform.
var _ ports.InvoicingPlatform = (*Client)(nil)

const documentsURL = "https://api.holded.com/api/invoicing/v1/documents"

// Client cliente HTTP de la API de documentos de Holded.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente con el endpoint de producción.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    documentsURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del documento Holded ─────────────────────────────────────────

type holdedItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Tax         int     `json:"tax"`
}

type holdedDocument struct {
	Type          string       `json:"type"`
	Date          string       `json:"date"`
	DueDate       string       `json:"dueDate"`
	ContactName   string       `json:"contactName"`
	Concept       string       `json:"concept"`
	Description   string       `json:"description"`
	Items         []holdedItem `json:"items"`
	Currency      string       `json:"currency"`
	Tags          []string     `json:"tags"`
	PaymentMethod string       `json:"paymentMethod"`
}

// CreateInvoice crea un documento de tipo factura en Holded.
func (c *Client) CreateInvoice(ctx context.Context, apiKey string, inv ports.PlatformInvoice) error {
	if apiKey == "" {
		return fmt.Errorf("holded: API key vacía")
	}

	items := make([]holdedItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		price, _ := it.Price.Float64()
		items = append(items, holdedItem{
			Name:        it.Name,
			Description: it.Description,
			Price:       price,
			Quantity:    it.Quantity,
			Tax:         it.Tax,
		})
	}

	now := time.Now().Format("2006-01-02")
	doc := holdedDocument{
		Type:          "invoice",
		Date:          now,
		DueDate:       inv.DueDate,
		ContactName:   inv.ContactName,
		Concept:       inv.Concept,
		Description:   inv.Description,
		Items:         items,
		Currency:      inv.Currency,
		Tags:          inv.Tags,
		PaymentMethod: inv.Payment,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("holded: serializar documento: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("holded: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("holded: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("holded: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("holded: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	return nil
}
