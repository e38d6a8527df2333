package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cogentcore.org/lab/base/randx"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/journal"
	"fancy_chessboard/internal/sim"
)

func newRunner(t *testing.T) *sim.Runner {
	t.Helper()
	p := game.DefaultParams()
	p.FallOnStart = false
	p.MovementWaiting = 0
	p.Duration = 0.1
	sc, err := game.NewScene(p, nil, randx.NewSysRand(7))
	require.NoError(t, err)
	r := sim.New(sc, sim.Options{Clock: func() float64 { return 0 }})
	r.Start()
	return r
}

func stepUntilMoves(t *testing.T, r *sim.Runner, moves uint64) {
	t.Helper()
	for now := 0.02; r.Snapshot().Moves < moves; now += 0.02 {
		_, err := r.Step(now)
		require.NoError(t, err)
	}
}

type stateResponse struct {
	State game.Snapshot `json:"state"`
	Error string        `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, stateResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var resp stateResponse
	if strings.HasPrefix(target, "/api/") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	}
	return rr, resp
}

func TestStateReturnsSnapshot(t *testing.T) {
	srv := NewServer(newRunner(t), nil)
	rr, resp := do(t, srv.Handler(), http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, resp.State.Pieces, 32)
	assert.Equal(t, game.White, resp.State.ToMove)
	assert.Equal(t, apiCSP, rr.Header().Get("Content-Security-Policy"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
}

func TestParamsPartialUpdate(t *testing.T) {
	r := newRunner(t)
	srv := NewServer(r, nil)

	rr, resp := do(t, srv.Handler(), http.MethodPost, "/api/params",
		`{"mode":2,"colors":["black"],"weights":{"knight":0,"queen":4}}`)
	require.Equal(t, http.StatusOK, rr.Code, resp.Error)

	p := r.Snapshot().Params
	assert.Equal(t, game.Mode(2), p.Mode)
	assert.Equal(t, []game.Color{game.Black}, p.Colors)
	assert.Zero(t, p.Weights[game.Knight])
	assert.Equal(t, 4.0, p.Weights[game.Queen])
	assert.Equal(t, 0.1, p.Duration)
	assert.Equal(t, game.Mode(2), resp.State.Params.Mode)
}

func TestParamsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"mode", http.MethodPost, `{"mode":9}`, http.StatusBadRequest},
		{"color", http.MethodPost, `{"colors":["green"]}`, http.StatusBadRequest},
		{"empty colors", http.MethodPost, `{"colors":[]}`, http.StatusBadRequest},
		{"piece type", http.MethodPost, `{"weights":{"dragon":1}}`, http.StatusBadRequest},
		{"negative weight", http.MethodPost, `{"weights":{"pawn":-1}}`, http.StatusBadRequest},
		{"falling", http.MethodPost, `{"falling":{"g":0}}`, http.StatusBadRequest},
		{"json", http.MethodPost, `{"mode":`, http.StatusBadRequest},
		{"too large", http.MethodPost, `{"colors":["` + strings.Repeat("w", int(maxJSONBodyBytes)) + `"]}`, http.StatusRequestEntityTooLarge},
		{"method", http.MethodDelete, ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(t)
			before := r.Snapshot().Params
			rr, resp := do(t, NewServer(r, nil).Handler(), tt.method, "/api/params", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, before, r.Snapshot().Params)
		})
	}
}

func TestFallingRestarts(t *testing.T) {
	r := newRunner(t)
	srv := NewServer(r, nil)
	assert.False(t, r.Snapshot().Falling.Running)

	rr, resp := do(t, srv.Handler(), http.MethodPost, "/api/falling", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.State.Falling.Running)

	rr, _ = do(t, srv.Handler(), http.MethodGet, "/api/falling", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestResetRestoresOpening(t *testing.T) {
	r := newRunner(t)
	stepUntilMoves(t, r, 3)
	srv := NewServer(r, nil)

	rr, resp := do(t, srv.Handler(), http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, resp.State.Moves)
	assert.Nil(t, resp.State.LastMove)
	assert.Empty(t, r.History())
}

type historyResponse struct {
	Moves []game.MoveRecord `json:"moves"`
	Total int               `json:"total"`
}

func TestHistoryFromScene(t *testing.T) {
	r := newRunner(t)
	stepUntilMoves(t, r, 4)
	srv := NewServer(r, nil)

	rr, _ := do(t, srv.Handler(), http.MethodGet, "/api/history?limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.Moves, 2)
	assert.Equal(t, r.History()[2:], resp.Moves)

	rr, _ = do(t, srv.Handler(), http.MethodGet, "/api/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryFromJournal(t *testing.T) {
	j, err := journal.OpenMemory()
	require.NoError(t, err)
	defer j.Close()

	p := game.DefaultParams()
	p.FallOnStart = false
	p.MovementWaiting = 0
	p.Duration = 0.1
	sc, err := game.NewScene(p, nil, randx.NewSysRand(3))
	require.NoError(t, err)
	r := sim.New(sc, sim.Options{Recorder: j, Clock: func() float64 { return 0 }})
	r.Start()
	stepUntilMoves(t, r, 5)

	// A reset empties the scene history but not the journal.
	rr, _ := do(t, NewServer(r, j).Handler(), http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = do(t, NewServer(r, j).Handler(), http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Moves, 5)

	b := game.NewBoard()
	assert.NoError(t, game.ReplayMoves(b, resp.Moves))
}

func TestHealthz(t *testing.T) {
	rr, _ := do(t, NewServer(newRunner(t), nil).Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestStreamSendsSnapshots(t *testing.T) {
	r := newRunner(t)
	ts := httptest.NewServer(NewServer(r, nil).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snap game.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Len(t, snap.Pieces, 32)

	_, err = r.Step(0.5)
	require.NoError(t, err)
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, 0.5, snap.Time)
	assert.Equal(t, game.OutcomeStarted, snap.Outcome)
}
