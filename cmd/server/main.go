// Command server exposes a compiled lexd transducer as a JSON REST API.
//
// Endpoints:
//
//	GET /api/analyze?surface=<form>
//	GET /api/generate?lexical=<reading>
//	GET /api/stats
//
// The grammar path may be a single .lexd file or a directory of them; with
// -watch the server recompiles and swaps the transducer whenever the
// grammar files change on disk.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/cors"

	lexd "github.com/pamir-morph/golexd"
)

// ---- JSON response types ------------------------------------------------

type analyzeResponse struct {
	Surface  string   `json:"surface"`
	Readings []string `json:"readings"`
}

type generateResponse struct {
	Lexical  string   `json:"lexical"`
	Surfaces []string `json:"surfaces"`
}

type statsResponse struct {
	States      int `json:"states"`
	Transitions int `json:"transitions"`
	WordClasses int `json:"word_classes"`
	Lexicons    int `json:"lexicons"`
	Entries     int `json:"entries"`
	Templates   int `json:"templates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- transducer holder --------------------------------------------------

// holder swaps the compiled transducer atomically under reload, so inflight
// queries always see a consistent automaton.
type holder struct {
	mu sync.RWMutex
	t  *lexd.Transducer
}

func (h *holder) get() *lexd.Transducer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.t
}

func (h *holder) set(t *lexd.Transducer) {
	h.mu.Lock()
	h.t = t
	h.mu.Unlock()
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func queryStatus(err error) int {
	var berr *lexd.BudgetExceededError
	if errors.As(err, &berr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// ---- handlers -----------------------------------------------------------

func handleAnalyze(h *holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		surface := r.URL.Query().Get("surface")
		if surface == "" {
			writeError(w, http.StatusBadRequest, "missing 'surface' query parameter")
			return
		}
		readings, err := h.get().Analyze(surface, nil)
		if err != nil {
			writeError(w, queryStatus(err), err.Error())
			return
		}
		status := http.StatusOK
		if len(readings) == 0 {
			status = http.StatusNotFound
			readings = []string{}
		}
		writeJSON(w, status, analyzeResponse{Surface: surface, Readings: readings})
	}
}

func handleGenerate(h *holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		lexical := r.URL.Query().Get("lexical")
		if lexical == "" {
			writeError(w, http.StatusBadRequest, "missing 'lexical' query parameter")
			return
		}
		surfaces, err := h.get().Generate(lexical, nil)
		if err != nil {
			writeError(w, queryStatus(err), err.Error())
			return
		}
		status := http.StatusOK
		if len(surfaces) == 0 {
			status = http.StatusNotFound
			surfaces = []string{}
		}
		writeJSON(w, status, generateResponse{Lexical: lexical, Surfaces: surfaces})
	}
}

func handleStats(h *holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		s := h.get().Stats()
		writeJSON(w, http.StatusOK, statsResponse{
			States:      s.States,
			Transitions: s.Transitions,
			WordClasses: s.WordClasses,
			Lexicons:    s.Lexicons,
			Entries:     s.Entries,
			Templates:   s.Templates,
		})
	}
}

// ---- grammar reload -----------------------------------------------------

// watchGrammar recompiles the grammar after .lexd files change, debouncing
// bursts of editor writes. Compile failures keep the previous transducer.
// The watcher closes when ctx is cancelled.
func watchGrammar(ctx context.Context, path string, h *holder) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(ev.Name, ".lexd") {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(200*time.Millisecond, func() {
					t, err := lexd.CompilePath(path)
					if err != nil {
						slog.Error("grammar reload failed, keeping previous", "path", path, "err", err)
						return
					}
					h.set(t)
					s := t.Stats()
					slog.Info("grammar reloaded", "states", s.States, "entries", s.Entries)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("grammar watch", "err", err)
			}
		}
	}()
	return nil
}

// ---- main ---------------------------------------------------------------

func main() {
	grammar := flag.String("grammar", "grammar", "path to a .lexd file or a directory of them")
	addr := flag.String("addr", ":8080", "listen address")
	watch := flag.Bool("watch", false, "recompile when grammar files change")
	flag.Parse()

	slog.Info("compiling grammar", "path", *grammar)
	t, err := lexd.CompilePath(*grammar)
	if err != nil {
		slog.Error("compile grammar", "err", err)
		os.Exit(1)
	}
	s := t.Stats()
	slog.Info("grammar compiled",
		"states", s.States, "transitions", s.Transitions,
		"word_classes", s.WordClasses, "entries", s.Entries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &holder{t: t}
	if *watch {
		if err := watchGrammar(ctx, *grammar, h); err != nil {
			slog.Error("start grammar watcher", "err", err)
			os.Exit(1)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", handleAnalyze(h))
	mux.HandleFunc("/api/generate", handleGenerate(h))
	mux.HandleFunc("/api/stats", handleStats(h))

	srv := &http.Server{Addr: *addr, Handler: cors.Default().Handler(mux)}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	slog.Info("listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}
