package exporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplural/konyx-api/internal/application/exporting"
	"github.com/enplural/konyx-api/internal/domain/entity"
)

// llmFunc adapta una función al puerto del servicio de completado.
type llmFunc func(ctx context.Context, prompt string) (string, error)

func (f llmFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func completeContact() entity.ContactRecord {
	return entity.ContactRecord{
		Name: "Ana Pérez", TaxID: "12345678Z", Address: "Calle Mayor 1",
		PostalCode: "28001", City: "Madrid", Province: "Madrid",
	}
}

func TestEnrich_CompletaProvinciaPorCodigoPostal(t *testing.T) {
	var prompts []string
	llm := llmFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return " Madrid\n", nil
	})
	e := exporting.NewEnricher(llm, time.Second)

	c := completeContact()
	c.Province = ""
	var steps []string
	out := e.Enrich(context.Background(), []entity.ContactRecord{c}, func(s string) { steps = append(steps, s) })

	require.Len(t, out, 1)
	assert.Equal(t, "Madrid", out[0].Province, "la respuesta se usa recortada")
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "28001", "el código postal es lo único que viaja al servicio externo")
	assert.NotContains(t, prompts[0], "Ana", "ningún dato personal en el prompt")
	require.Len(t, steps, 1)
	assert.Contains(t, steps[0], "Provincia completada")
}

// Un campo ya informado no se toca ni genera llamada externa.
func TestEnrich_ProvinciaInformadaNoLlama(t *testing.T) {
	calls := 0
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "Barcelona", nil
	})
	e := exporting.NewEnricher(llm, time.Second)

	out := e.Enrich(context.Background(), []entity.ContactRecord{completeContact()}, func(string) {})
	assert.Equal(t, 0, calls)
	assert.Equal(t, "Madrid", out[0].Province)
}

// Sin código postal de 5 caracteres no hay nada que preguntar.
func TestEnrich_SinCodigoPostalNoLlama(t *testing.T) {
	calls := 0
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		return "Madrid", nil
	})
	e := exporting.NewEnricher(llm, time.Second)

	c := completeContact()
	c.Province = ""
	c.PostalCode = ""
	var steps []string
	e.Enrich(context.Background(), []entity.ContactRecord{c}, func(s string) { steps = append(steps, s) })

	assert.Equal(t, 0, calls)
	require.Len(t, steps, 1)
	assert.Contains(t, steps[0], "contacto incompleto")
	assert.Contains(t, steps[0], "provincia")
}

// Un fallo del servicio externo nunca es fatal: el campo queda vacío y se
// avisa como contacto incompleto.
func TestEnrich_FalloExternoDejaCampoVacio(t *testing.T) {
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("sin credencial")
	})
	e := exporting.NewEnricher(llm, time.Second)

	c := completeContact()
	c.Province = ""
	var steps []string
	out := e.Enrich(context.Background(), []entity.ContactRecord{c}, func(s string) { steps = append(steps, s) })

	assert.Empty(t, out[0].Province)
	require.Len(t, steps, 1)
	assert.Contains(t, steps[0], "Aviso: Ana Pérez: contacto incompleto")
}

// Varios campos faltantes del mismo contacto producen un único aviso.
func TestEnrich_AvisoUnicoPorContacto(t *testing.T) {
	llm := llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("sin credencial")
	})
	e := exporting.NewEnricher(llm, time.Second)

	c := entity.ContactRecord{Name: "Luis Gómez"} // todo vacío
	var steps []string
	e.Enrich(context.Background(), []entity.ContactRecord{c}, func(s string) { steps = append(steps, s) })

	require.Len(t, steps, 1)
	assert.Contains(t, steps[0], "NIF")
	assert.Contains(t, steps[0], "dirección")
	assert.Contains(t, steps[0], "población")
	assert.Contains(t, steps[0], "provincia")
}

// Un contacto completo no genera ningún aviso.
func TestEnrich_ContactoCompletoSinAvisos(t *testing.T) {
	e := exporting.NewEnricher(llmFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	}), time.Second)

	var steps []string
	e.Enrich(context.Background(), []entity.ContactRecord{completeContact()}, func(s string) { steps = append(steps, s) })
	assert.Empty(t, steps)
}
