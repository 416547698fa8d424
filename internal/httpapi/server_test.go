package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, placement string, store *storage.Storage) *Server {
	t.Helper()
	b := board.Standard()
	var (
		setup []game.Placement
		err   error
	)
	if placement == "" {
		setup, err = game.StandardSetup(b)
	} else {
		setup, err = game.ParsePlacement(placement, b)
	}
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}
	s, err := NewServer(NewGameConfig{Board: b, Setup: setup}, store)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return s
}

// do sends a request and decodes the JSON body into out when out is non-nil.
func do(t *testing.T, s *Server, method, path, body string, out any) int {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

type moveResponse struct {
	Notation string      `json:"notation"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Capture  bool        `json:"capture"`
	Check    bool        `json:"check"`
	Outcome  outcomeView `json:"outcome"`
	Error    string      `json:"error"`
}

func TestBoard(t *testing.T) {
	s := newTestServer(t, "", nil)

	var v boardView
	if code := do(t, s, http.MethodGet, "/api/board", "", &v); code != http.StatusOK {
		t.Fatalf("GET /api/board = %d", code)
	}
	if v.Rows != 8 || v.Columns != 8 || len(v.Pieces) != 32 {
		t.Errorf("board = %dx%d with %d pieces", v.Rows, v.Columns, len(v.Pieces))
	}
	if v.Active != "White" || v.State != "awaiting input" || v.InCheck || v.Score != "*" {
		t.Errorf("board view = %+v", v)
	}
}

func TestMoves(t *testing.T) {
	s := newTestServer(t, "", nil)

	var got struct {
		Square string     `json:"square"`
		Piece  pieceView  `json:"piece"`
		Moves  []moveView `json:"moves"`
	}
	if code := do(t, s, http.MethodGet, "/api/moves/e2", "", &got); code != http.StatusOK {
		t.Fatalf("GET /api/moves/e2 = %d", code)
	}
	want := []moveView{{To: "e3"}, {To: "e4"}}
	if diff := cmp.Diff(want, got.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if got.Piece.Type != "Pawn" || got.Piece.Color != "White" {
		t.Errorf("piece = %+v", got.Piece)
	}

	// Black's pieces have no legal list while White is to move.
	if code := do(t, s, http.MethodGet, "/api/moves/g8", "", &got); code != http.StatusOK || len(got.Moves) != 0 {
		t.Errorf("GET /api/moves/g8 = %d, %v", code, got.Moves)
	}
	if code := do(t, s, http.MethodGet, "/api/moves/e5", "", nil); code != http.StatusNotFound {
		t.Errorf("empty square = %d, want 404", code)
	}
	if code := do(t, s, http.MethodGet, "/api/moves/z9", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad square = %d, want 400", code)
	}
}

func TestPlayMoves(t *testing.T) {
	s := newTestServer(t, "", nil)

	var m moveResponse
	if code := do(t, s, http.MethodPost, "/api/moves", `{"move":"e4"}`, &m); code != http.StatusOK {
		t.Fatalf("POST e4 = %d: %s", code, m.Error)
	}
	if m.Notation != "e4" || m.From != "e2" || m.To != "e4" || m.Outcome.ToMove != "Black" {
		t.Errorf("e4 response = %+v", m)
	}

	m = moveResponse{}
	if code := do(t, s, http.MethodPost, "/api/moves", `{"from":"d7","to":"d5"}`, &m); code != http.StatusOK {
		t.Fatalf("POST d7d5 = %d: %s", code, m.Error)
	}
	if m.Notation != "d5" {
		t.Errorf("d5 notation = %q", m.Notation)
	}

	m = moveResponse{}
	do(t, s, http.MethodPost, "/api/moves", `{"move":"exd5"}`, &m)
	if !m.Capture || m.Notation != "exd5" {
		t.Errorf("exd5 response = %+v", m)
	}

	var h struct {
		Moves []recordView `json:"moves"`
	}
	if code := do(t, s, http.MethodGet, "/api/history", "", &h); code != http.StatusOK {
		t.Fatalf("GET /api/history = %d", code)
	}
	want := []recordView{
		{Ply: 1, Number: 1, Color: "White", Notation: "e4"},
		{Ply: 2, Number: 1, Color: "Black", Notation: "d5"},
		{Ply: 3, Number: 2, Color: "White", Notation: "exd5"},
	}
	if diff := cmp.Diff(want, h.Moves); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{"move":`, http.StatusBadRequest},
		{"bad square", `{"from":"e2","to":"e9"}`, http.StatusBadRequest},
		{"unreachable", `{"move":"e5"}`, http.StatusUnprocessableEntity},
		{"opponent piece", `{"from":"e7","to":"e5"}`, http.StatusUnprocessableEntity},
		{"empty square", `{"from":"e4","to":"e5"}`, http.StatusUnprocessableEntity},
		{"promotion off far rank", `{"from":"e2","to":"e4","promotion":"Q"}`, http.StatusUnprocessableEntity},
		{"bad promotion", `{"from":"e2","to":"e4","promotion":"X"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "", nil)
			before := s.game.String()

			var m moveResponse
			if code := do(t, s, http.MethodPost, "/api/moves", tt.body, &m); code != tt.want {
				t.Errorf("POST %s = %d, want %d (%s)", tt.body, code, tt.want, m.Error)
			}
			if m.Error == "" {
				t.Error("response has no error message")
			}
			if after := s.game.String(); after != before {
				t.Errorf("rejected move changed the position:\n%s", after)
			}
		})
	}
}

func TestPromotionRequest(t *testing.T) {
	s := newTestServer(t, "4k3/1P6/8/8/8/8/8/4K3", nil)

	var m moveResponse
	body := `{"from":"b7","to":"b8","promotion":"N"}`
	if code := do(t, s, http.MethodPost, "/api/moves", body, &m); code != http.StatusOK {
		t.Fatalf("POST %s = %d: %s", body, code, m.Error)
	}
	if m.Notation != "b8=N" {
		t.Errorf("notation = %q, want b8=N", m.Notation)
	}
	if p := s.game.PieceAt(board.NewSquare(1, 7)); p == nil || p.Type() != board.Knight {
		t.Errorf("b8 holds %v, want a knight", p)
	}
}

func TestGameOverAndNewGame(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error: %v", err)
	}
	defer store.Close()
	s := newTestServer(t, "", store)

	var m moveResponse
	for _, mv := range []string{"f3", "e5", "g4", "Qh4"} {
		m = moveResponse{}
		if code := do(t, s, http.MethodPost, "/api/moves", `{"move":"`+mv+`"}`, &m); code != http.StatusOK {
			t.Fatalf("POST %s = %d: %s", mv, code, m.Error)
		}
	}
	want := outcomeView{Result: "checkmate", Score: "0-1", ToMove: "White", Winner: "Black"}
	if diff := cmp.Diff(want, m.Outcome); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
	if m.Notation != "Qh4#" {
		t.Errorf("notation = %q, want Qh4#", m.Notation)
	}

	if code := do(t, s, http.MethodPost, "/api/moves", `{"move":"a3"}`, nil); code != http.StatusConflict {
		t.Errorf("move after mate = %d, want 409", code)
	}

	var v boardView
	do(t, s, http.MethodGet, "/api/board", "", &v)
	if v.State != "checkmate" || !v.InCheck || v.Score != "0-1" {
		t.Errorf("board after mate = %+v", v)
	}
	firstID := v.ID

	if code := do(t, s, http.MethodPost, "/api/games", "", &v); code != http.StatusCreated {
		t.Fatalf("POST /api/games = %d", code)
	}
	if v.State != "awaiting input" || v.ID == firstID || len(v.Pieces) != 32 {
		t.Errorf("new game = %+v", v)
	}

	var games struct {
		Games []storage.GameMeta `json:"games"`
	}
	if code := do(t, s, http.MethodGet, "/api/games", "", &games); code != http.StatusOK || len(games.Games) != 2 {
		t.Fatalf("GET /api/games = %d, %d games", code, len(games.Games))
	}
	if games.Games[0].Result != "0-1" || games.Games[0].Plies != 4 {
		t.Errorf("first game = %+v", games.Games[0])
	}

	var stats storage.GameStats
	do(t, s, http.MethodGet, "/api/stats", "", &stats)
	if stats.GamesPlayed != 1 || stats.BlackWins != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStoreRoutesWithoutStore(t *testing.T) {
	s := newTestServer(t, "", nil)
	for _, path := range []string{"/api/games", "/api/stats"} {
		if code := do(t, s, http.MethodGet, path, "", nil); code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, code)
		}
	}
}

func TestRejectedSetupIsNotStored(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error: %v", err)
	}
	defer store.Close()

	b := board.Standard()
	setup, err := game.ParsePlacement("8/8/8/8/8/8/8/4K3", b)
	if err != nil {
		t.Fatalf("ParsePlacement() error: %v", err)
	}
	if _, err := NewServer(NewGameConfig{Board: b, Setup: setup}, store); !errors.Is(err, game.ErrInvalidSetup) {
		t.Fatalf("NewServer() error = %v, want ErrInvalidSetup", err)
	}

	games, err := store.ListGames()
	if err != nil {
		t.Fatalf("ListGames() error: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("ListGames() = %+v, want no games", games)
	}
}
