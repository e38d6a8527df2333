// Package httpx exposes a running scene over HTTP: JSON endpoints to read
// and tune it and a websocket stream of snapshots.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/journal"
	"fancy_chessboard/internal/sim"
)

// MoveLog is the persistent move listing served by /api/history.
type MoveLog interface {
	List(limit int) ([]journal.Entry, error)
	Len() uint64
}

// Server wires the HTTP layer to a simulation runner.
type Server struct {
	runner   *sim.Runner
	moves    MoveLog
	upgrader websocket.Upgrader
	srvMu    sync.Mutex
	srv      *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

	defaultHistoryLimit = 100
	streamBuffer        = 8
	writeWait           = 5 * time.Second
)

// NewServer serves runner. moves may be nil, in which case /api/history
// lists the scene's in-memory history.
func NewServer(runner *sim.Runner, moves MoveLog) *Server {
	return &Server{
		runner: runner,
		moves:  moves,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	slog.Info("HTTP listening", "addr", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.withJSON(s.handleState))
	mux.HandleFunc("/api/params", s.withJSON(s.handleParams))
	mux.HandleFunc("/api/falling", s.withJSON(s.handleFalling))
	mux.HandleFunc("/api/reset", s.withJSON(s.handleReset))
	mux.HandleFunc("/api/history", s.withJSON(s.handleHistory))
	mux.HandleFunc("/ws", s.handleStream)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// applyOrFail runs fn on the scene and answers with the new state, or with
// 400 for parameter errors.
func (s *Server) applyOrFail(w http.ResponseWriter, fn func(*game.Scene) error) {
	if err := s.runner.Apply(fn); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, game.ErrInvalidParam) || errors.Is(err, game.ErrInvalidMode) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, map[string]any{"state": s.runner.Snapshot()})
}

// ---- API: state ----

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, map[string]any{"state": s.runner.Snapshot()})
}

// ---- API: params ----

// paramsBody changes only the fields that are present.
type paramsBody struct {
	MovementWaiting *float64            `json:"movementWaiting"`
	Duration        *float64            `json:"duration"`
	Mode            *int                `json:"mode"`
	Colors          []string            `json:"colors"`
	Weights         map[string]float64  `json:"weights"`
	Falling         *game.FallingParams `json:"falling"`
	FallOnStart     *bool               `json:"fallOnStart"`
	HistoryLimit    *int                `json:"historyLimit"`
}

func (b paramsBody) apply(p game.Params) (game.Params, error) {
	if b.MovementWaiting != nil {
		p.MovementWaiting = *b.MovementWaiting
	}
	if b.Duration != nil {
		p.Duration = *b.Duration
	}
	if b.Mode != nil {
		p.Mode = game.Mode(*b.Mode)
	}
	if b.Colors != nil {
		p.Colors = p.Colors[:0:0]
		for _, name := range b.Colors {
			c, ok := game.ParseColor(name)
			if !ok {
				return p, fmt.Errorf("%w: color %q", game.ErrInvalidParam, name)
			}
			p.Colors = append(p.Colors, c)
		}
	}
	for name, weight := range b.Weights {
		typ, ok := game.ParsePieceType(name)
		if !ok {
			return p, fmt.Errorf("%w: piece type %q", game.ErrInvalidParam, name)
		}
		p.Weights[typ] = weight
	}
	if b.Falling != nil {
		p.Falling = *b.Falling
	}
	if b.FallOnStart != nil {
		p.FallOnStart = *b.FallOnStart
	}
	if b.HistoryLimit != nil {
		p.HistoryLimit = *b.HistoryLimit
	}
	return p, nil
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]any{"params": s.runner.Snapshot().Params})
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body paramsBody
	if !decodeBody(w, r, &body) {
		return
	}
	s.applyOrFail(w, func(sc *game.Scene) error {
		p, err := body.apply(sc.Params())
		if err != nil {
			return err
		}
		return sc.SetParams(p)
	})
}

// ---- API: falling, reset ----

func (s *Server) handleFalling(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	now := s.runner.Now()
	s.applyOrFail(w, func(sc *game.Scene) error {
		sc.RestartFalling(now)
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	now := s.runner.Now()
	s.applyOrFail(w, func(sc *game.Scene) error {
		sc.Reset(now)
		return nil
	})
}

// ---- API: history ----

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := defaultHistoryLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	if s.moves == nil {
		moves := s.runner.History()
		total := len(moves)
		if limit > 0 && len(moves) > limit {
			moves = moves[len(moves)-limit:]
		}
		writeJSON(w, map[string]any{"moves": moves, "total": total})
		return
	}
	entries, err := s.moves.List(limit)
	if err != nil {
		slog.Error("list journal", "err", err)
		writeError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	writeJSON(w, map[string]any{"moves": journal.Records(entries), "total": s.moves.Len()})
}

// ---- websocket ----

// handleStream upgrades to a websocket and sends the current snapshot
// followed by every published one until either side goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	snaps, cancel := s.runner.Subscribe(streamBuffer)
	defer cancel()

	// Reading is only needed to notice the peer closing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(snap game.Snapshot) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snap); err != nil {
			slog.Debug("websocket write", "err", err)
			return false
		}
		return true
	}

	if !send(s.runner.Snapshot()) {
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-snaps:
			if !ok || !send(snap) {
				return
			}
		}
	}
}
