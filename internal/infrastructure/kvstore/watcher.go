package kvstore

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observa el directorio de datos y avisa cuando otro proceso
// modifica un blob. Los avisos se agrupan: ráfagas de eventos dentro de
// la ventana producen una sola llamada.
type Watcher struct {
	fw       *fsnotify.Watcher
	log      zerolog.Logger
	window   time.Duration
	onChange func(key string)

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
}

// NewWatcher construye el observador sobre dir. onChange recibe la clave
// modificada; se invoca desde la goroutine del watcher.
func NewWatcher(dir string, window time.Duration, log zerolog.Logger, onChange func(key string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		log:      log,
		window:   window,
		onChange: onChange,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := ev.Name
			if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
				name = name[idx+1:]
			}
			if !strings.HasSuffix(name, fileExt) {
				continue
			}
			w.schedule(strings.TrimSuffix(name, fileExt))
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("error del observador de archivos")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[key]; ok {
		t.Reset(w.window)
		return
	}
	w.pending[key] = time.AfterFunc(w.window, func() {
		w.mu.Lock()
		delete(w.pending, key)
		w.mu.Unlock()
		w.onChange(key)
	})
}

// Close detiene el observador y cancela los avisos pendientes.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	for key, t := range w.pending {
		t.Stop()
		delete(w.pending, key)
	}
	w.mu.Unlock()
	return w.fw.Close()
}
