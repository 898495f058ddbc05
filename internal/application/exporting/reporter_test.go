package exporting_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplural/konyx-api/internal/application/dto"
	"github.com/enplural/konyx-api/internal/application/exporting"
)

// drain recoge los eventos del canal hasta que se cierre (o expire el tope).
func drain(t *testing.T, ch <-chan dto.ProgressEvent) []dto.ProgressEvent {
	t.Helper()
	var out []dto.ProgressEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("el canal de eventos no se cerró a tiempo")
		}
	}
}

func TestReporter_SuscriptorRecibeEventosYCierre(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()

	_, ch, cancel := r.Subscribe()
	defer cancel()

	r.Log("paso 1")
	r.Log("paso 2")
	r.End("salida.csv")

	events := drain(t, ch)
	require.Len(t, events, 3)
	assert.Equal(t, "log", events[0].Type)
	assert.Equal(t, "paso 1", events[0].Step)
	assert.Equal(t, "end", events[2].Type)
	assert.Equal(t, "salida.csv", events[2].File)
}

// Un suscriptor tardío recibe primero todo el historial y después los nuevos.
func TestReporter_SuscriptorTardioRecibeHistorial(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()
	r.Log("paso 1")
	r.Log("paso 2")

	backlog, ch, cancel := r.Subscribe()
	defer cancel()
	require.Len(t, backlog, 2)
	assert.Equal(t, "paso 1", backlog[0].Step)

	r.End("salida.csv")
	events := drain(t, ch)
	require.Len(t, events, 1)
	assert.Equal(t, "end", events[0].Type)
}

// Tras el evento terminal, suscribirse devuelve el historial completo y un
// canal ya cerrado: el cliente reproduce la ejecución entera sin bloquear.
func TestReporter_SuscripcionTrasTerminalReproduceTodo(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()
	r.Log("paso 1")
	r.Fail(errors.New("algo falló"))

	backlog, ch, cancel := r.Subscribe()
	defer cancel()
	require.Len(t, backlog, 2)
	assert.Equal(t, "end", backlog[1].Type)
	assert.Equal(t, "algo falló", backlog[1].Error)

	events := drain(t, ch)
	assert.Empty(t, events, "el canal debe llegar cerrado")
}

// Un estado terminal es definitivo: no se emite nada más hasta StartRun.
func TestReporter_NoEmiteTrasTerminal(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()
	r.End("salida.csv")
	r.Log("esto no debe registrarse")

	backlog, _, cancel := r.Subscribe()
	defer cancel()
	require.Len(t, backlog, 1)
	assert.Equal(t, "end", backlog[0].Type)
}

// Una ejecución nueva reemplaza el registro de la anterior y cierra a sus
// suscriptores.
func TestReporter_StartRunReemplazaElRegistro(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()
	r.Log("de la primera ejecución")
	_, oldCh, cancel := r.Subscribe()
	defer cancel()

	r.StartRun()
	events := drain(t, oldCh)
	assert.Empty(t, events, "los suscriptores de la ejecución anterior quedan cerrados")

	r.Log("de la segunda ejecución")
	backlog, _, cancel2 := r.Subscribe()
	defer cancel2()
	require.Len(t, backlog, 1)
	assert.Equal(t, "de la segunda ejecución", backlog[0].Step)
}

// En estado Idle (antes de cualquier ejecución) no se registra nada.
func TestReporter_IdleNoRegistra(t *testing.T) {
	r := exporting.NewReporter()
	r.Log("sin ejecución")

	backlog, ch, cancel := r.Subscribe()
	defer cancel()
	assert.Empty(t, backlog)
	assert.Empty(t, drain(t, ch))
}

// cancel desuscribe de forma idempotente sin cerrar dos veces el canal.
func TestReporter_CancelIdempotente(t *testing.T) {
	r := exporting.NewReporter()
	r.StartRun()
	_, _, cancel := r.Subscribe()
	cancel()
	assert.NotPanics(t, func() { cancel() })
	assert.NotPanics(t, func() { r.Log("tras cancelar") })
}
