// Package apiserver exposes the compiler driver over HTTP and WebSocket.
// It is a headless event/REST surface, not a GUI; its intended consumers
// are external tooling (an editor plugin, a CI runner).
package apiserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chipforge/ecfasm/manifest"
	"github.com/chipforge/ecfasm/progress"
	"github.com/chipforge/ecfasm/session"
	"github.com/chipforge/ecfasm/tables"
	"github.com/chipforge/ecfasm/toolconfig"
)

// Server serves the compile-and-watch HTTP API.
type Server struct {
	addr        string
	broadcaster *progress.Broadcaster
	httpServer  *http.Server
}

// NewServer builds a Server bound to the given "host:port" address.
func NewServer(addr string, bc *progress.Broadcaster) *Server {
	s := &Server{addr: addr, broadcaster: bc}

	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// compileRequest is the body of POST /compile.
type compileRequest struct {
	ProjectDir       string `json:"projectDir"`
	SourcePath       string `json:"sourcePath"`
	WriteTableFile   string `json:"writeTableFile"`
	ReadTableFile    string `json:"readTableFile"`
	InstructionsFile string `json:"instructionsFile"`
	SessionID        string `json:"sessionId"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	t, errs := tables.LoadDefinitionTables(req.WriteTableFile, req.ReadTableFile, req.InstructionsFile)
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"diagnostics": errs})
		return
	}

	man := manifest.Default()
	cfg := toolconfig.DefaultConfig()
	sess := session.New(req.ProjectDir, req.SessionID, man, t, cfg, s.broadcaster)

	src, err := readFile(req.SourcePath)
	if err != nil {
		http.Error(w, fmt.Sprintf("reading source: %v", err), http.StatusBadRequest)
		return
	}

	result := sess.Compile(src)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
