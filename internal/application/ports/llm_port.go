package ports

import "context"

// LLMService define el puerto de salida hacia el servicio de completado de
// texto usado para enriquecer contactos. Cualquier adaptador (Groq, mock)
// debe implementar esta interfaz; la aplicación solo conoce este contrato.
type LLMService interface {
	// Complete envía una pregunta corta en lenguaje natural y devuelve la
	// respuesta del modelo, o cadena vacía si el modelo no responde nada
	// útil. El contexto debe llevar timeout: es una llamada externa.
	Complete(ctx context.Context, prompt string) (string, error)
}
