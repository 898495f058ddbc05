package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/enplural/konyx-api/internal/application/ports"
)

// Verificar en tiempo de compilación que GroqService implementa LLMService.
var _ ports.LLMService = (*GroqService)(nil)

const (
	groqCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"

	defaultGroqModel = "llama3-70b-8192"

	// systemPrompt fija el rol del modelo: completar datos administrativos
	// de pacientes en España con respuestas cortas y literales.
	systemPrompt = "Eres un asistente administrativo que completa datos de pacientes en España."
)

// GroqService adaptador que implementa LLMService llamando a la API de Groq
// (compatible con chat completions de OpenAI). Usa net/http de la librería
// estándar; no requiere SDK.
type GroqService struct {
	keyFn      func() string // la clave se gestiona desde el panel y puede cambiar en caliente
	model      string
	httpClient *http.Client
}

// NewGroqService construye el adaptador. model suele ser "llama3-70b-8192".
// keyFn devuelve la clave API vigente; si devuelve vacío, las llamadas
// fallan con un error descriptivo en lugar de hacer red.
func NewGroqService(keyFn func() string, model string, timeout time.Duration) *GroqService {
	if model == "" {
		model = defaultGroqModel
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GroqService{
		keyFn: keyFn,
		model: model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ── Estructuras internas para la API de Groq ─────────────────────────────────

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete envía la pregunta al modelo y devuelve su respuesta recortada.
func (s *GroqService) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey := s.keyFn()
	if apiKey == "" {
		return "", fmt.Errorf("AI: API de Groq no configurada")
	}

	payload := groqRequest{
		Model: s.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2, // baja temperatura para respuestas más deterministas
		MaxTokens:   60,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	var groqResp groqResponse
	if err := json.Unmarshal(rawBody, &groqResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Groq: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if groqResp.Error != nil {
			return "", fmt.Errorf("AI: Groq %s: %s", groqResp.Error.Type, groqResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Groq HTTP %d", resp.StatusCode)
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("AI: Groq devolvió respuesta vacía")
	}

	return strings.TrimSpace(groqResp.Choices[0].Message.Content), nil
}
