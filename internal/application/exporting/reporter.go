// Package exporting orquesta una ejecución de exportación de principio a
// fin: lectura y validación de los archivos, enriquecimiento de contactos,
// reconciliación, agrupación en facturas, renderizado del artefacto y
// contabilidad de la ejecución.
package exporting

import (
	"sync"

	"github.com/enplural/konyx-api/internal/application/dto"
)

// Reporter mantiene el registro de eventos de la ejecución en curso:
// append-only, un solo productor (el pipeline) y varios consumidores (los
// suscriptores del flujo de progreso). Un suscriptor tardío recibe primero
// todo el historial y después los eventos nuevos. Estados:
// Idle → Running → {Succeeded, Failed}; una ejecución nueva reemplaza el
// registro de la anterior y nunca se vuelve a Running desde un estado
// terminal.
type Reporter struct {
	mu     sync.Mutex
	events []dto.ProgressEvent
	subs   map[chan dto.ProgressEvent]struct{}
	active bool // Running y sin evento terminal aún
}

// NewReporter crea un reporter en estado Idle.
func NewReporter() *Reporter {
	return &Reporter{subs: make(map[chan dto.ProgressEvent]struct{})}
}

// StartRun abre una ejecución nueva: descarta el registro anterior y pasa a
// Running. Los suscriptores de la ejecución anterior quedan cerrados.
func (r *Reporter) StartRun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		close(ch)
		delete(r.subs, ch)
	}
	r.events = r.events[:0]
	r.active = true
}

// Log añade un evento de paso a la ejecución en curso.
func (r *Reporter) Log(step string) {
	r.publish(dto.ProgressEvent{Type: "log", Step: step})
}

// End cierra la ejecución con éxito, publicando el artefacto generado.
func (r *Reporter) End(file string) {
	r.publish(dto.ProgressEvent{Type: "end", File: file})
}

// Fail cierra la ejecución con fallo.
func (r *Reporter) Fail(err error) {
	r.publish(dto.ProgressEvent{Type: "end", Error: err.Error()})
}

func (r *Reporter) publish(ev dto.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return // estado terminal: no se emite nada más hasta StartRun
	}
	r.events = append(r.events, ev)
	for ch := range r.subs {
		select {
		case ch <- ev:
		default:
			// suscriptor saturado: se desconecta antes que bloquear el pipeline
			close(ch)
			delete(r.subs, ch)
		}
	}
	if ev.Type == "end" {
		r.active = false
		for ch := range r.subs {
			close(ch)
			delete(r.subs, ch)
		}
	}
}

// Subscribe devuelve el historial emitido hasta ahora y un canal con los
// eventos futuros. El canal se cierra tras el evento terminal o cuando
// arranca una ejecución nueva. cancel desuscribe sin esperar el cierre.
func (r *Reporter) Subscribe() (backlog []dto.ProgressEvent, ch <-chan dto.ProgressEvent, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	backlog = make([]dto.ProgressEvent, len(r.events))
	copy(backlog, r.events)

	c := make(chan dto.ProgressEvent, 64)
	if !r.active {
		close(c)
		return backlog, c, func() {}
	}
	r.subs[c] = struct{}{}
	return backlog, c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[c]; ok {
			close(c)
			delete(r.subs, c)
		}
	}
}
