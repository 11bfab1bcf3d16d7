// Package persist implementa la cola de guardado: agrupa ráfagas de
// escrituras para que el snapshot completo de respaldo no corra una vez
// por cada edición de campo.
package persist

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Op una operación de guardado pendiente.
type Op func() error

// DefaultDebounce ventana de agrupamiento por defecto.
const DefaultDebounce = time.Second

// SaveQueue cola FIFO con drenaje de vuelo único y ventana de rebote.
//
// Contrato:
//   - FIFO estricto: las operaciones se drenan en orden de llegada y cada
//     una termina antes de que empiece la siguiente.
//   - Vuelo único: nunca hay dos drenajes concurrentes.
//   - Rebote: un drenaje no puede empezar antes de que pase la ventana
//     desde el inicio del drenaje anterior; los encolados dentro de la
//     ventana reprograman en lugar de ejecutar de inmediato.
//   - Una operación que falla se registra y se descarta; el resto de la
//     cola se drena igual.
type SaveQueue struct {
	log      zerolog.Logger
	debounce time.Duration

	mu            sync.Mutex
	queue         []Op
	lastFlushTime time.Time
	flushing      bool
	timer         *time.Timer
	closed        bool
	idle          *sync.Cond
}

// NewSaveQueue construye la cola. debounce <= 0 usa la ventana por defecto.
func NewSaveQueue(debounce time.Duration, log zerolog.Logger) *SaveQueue {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	q := &SaveQueue{log: log, debounce: debounce}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Enqueue agrega una operación y programa un drenaje respetando la ventana.
func (q *SaveQueue) Enqueue(op Op) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.queue = append(q.queue, op)
	q.scheduleLocked()
}

// Len operaciones pendientes (para observabilidad y tests).
func (q *SaveQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// scheduleLocked programa el próximo drenaje. Se llama con q.mu tomado.
func (q *SaveQueue) scheduleLocked() {
	if q.flushing || len(q.queue) == 0 || q.timer != nil {
		return
	}
	wait := q.debounce - time.Since(q.lastFlushTime)
	if wait < 0 {
		wait = 0
	}
	q.timer = time.AfterFunc(wait, q.flush)
}

// flush drena la cola completa en orden. Guardado por la bandera de vuelo
// único: si otro drenaje está activo, este se reprograma al terminar aquel.
func (q *SaveQueue) flush() {
	q.mu.Lock()
	q.timer = nil
	if q.flushing || len(q.queue) == 0 {
		q.mu.Unlock()
		return
	}
	q.flushing = true
	q.lastFlushTime = time.Now()
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.flushing = false
			// Pudo encolarse algo entre el último pop y este chequeo.
			q.scheduleLocked()
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		op := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()

		if err := op(); err != nil {
			q.log.Error().Err(err).Msg("operación de guardado falló, se descarta")
		}
	}
}

// Flush fuerza un drenaje inmediato y espera a que la cola quede vacía.
// Se usa al apagar.
func (q *SaveQueue) Flush() {
	q.mu.Lock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if !q.flushing && len(q.queue) > 0 {
		go q.flush()
	}
	for q.flushing || len(q.queue) > 0 {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// Close drena lo pendiente y rechaza encolados futuros.
func (q *SaveQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.Flush()
}
