// Package httpapi exposes a game over HTTP for a presentation front end.
package httpapi

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// NewGameConfig describes how new games start.
type NewGameConfig struct {
	Board   board.Board
	Setup   []game.Placement
	Options []game.Option
}

// Server holds the current game. Handlers run one at a time under mu.
type Server struct {
	cfg   NewGameConfig
	store *storage.Storage // nil: games are not persisted

	mu       sync.Mutex
	game     *game.Game
	recorder *storage.Recorder

	engine *gin.Engine
}

// NewServer starts the first game and registers the routes. store may be nil.
func NewServer(cfg NewGameConfig, store *storage.Storage) (*Server, error) {
	s := &Server{cfg: cfg, store: store}
	if err := s.reset(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	api := r.Group("/api")
	api.GET("/board", s.Board)
	api.GET("/moves/:square", s.Moves)
	api.POST("/moves", s.Move)
	api.GET("/history", s.History)
	api.POST("/games", s.NewGame)
	api.GET("/games", s.Games)
	api.GET("/stats", s.Stats)
	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("httpapi: listening on %s", addr)
	return s.engine.Run(addr)
}

// reset replaces the current game. The stored record is created only once
// the setup has been accepted. Callers hold mu, except NewServer.
func (s *Server) reset() error {
	g, err := game.New(s.cfg.Board, s.cfg.Setup, s.cfg.Options...)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if s.store != nil {
		id, err := s.store.CreateGame(s.cfg.Board, s.cfg.Setup)
		if err != nil {
			return err
		}
		rec = storage.NewRecorder(s.store, id)
		g.Observe(rec)
	}
	s.game, s.recorder = g, rec
	return nil
}

func (s *Server) gameID() string {
	if s.recorder == nil {
		return ""
	}
	return s.recorder.ID()
}

// Board returns the current position.
func (s *Server) Board(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, s.boardView())
}

// Moves returns the legal moves of the piece on :square.
func (s *Server) Moves(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sq, err := s.game.Board().ParseSquare(ctx.Param("square"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := s.game.PieceAt(sq)
	if p == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no piece on " + sq.String()})
		return
	}

	moves := []moveView{}
	for _, m := range s.game.LegalMoves(p) {
		moves = append(moves, newMoveView(s.game, p, m))
	}
	ctx.JSON(http.StatusOK, gin.H{
		"square": sq.String(),
		"piece":  newPieceView(p),
		"moves":  moves,
	})
}

type moveRequest struct {
	Move      string `json:"move"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

// Move plays one move and closes the turn.
func (s *Server) Move(ctx *gin.Context) {
	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.State().Terminal() {
		s.fail(ctx, game.ErrGameOver)
		return
	}
	p, m, err := s.resolve(req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	applied, err := s.game.ApplyMove(p, m)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	out, err := s.game.EndTurn()
	if err != nil {
		s.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notation": out.Record.Notation,
		"from":     applied.From.String(),
		"to":       applied.To.String(),
		"capture":  applied.IsCapture,
		"castle":   applied.IsCastle,
		"check":    applied.IsCheck,
		"outcome":  newOutcomeView(out),
	})
}

// resolve turns a request into a piece and move of the side to move.
func (s *Server) resolve(req moveRequest) (*game.Piece, game.Move, error) {
	if req.Move != "" {
		return s.game.ParseMove(req.Move)
	}

	b := s.game.Board()
	from, err := b.ParseSquare(req.From)
	if err != nil {
		return nil, game.Move{}, err
	}
	to, err := b.ParseSquare(req.To)
	if err != nil {
		return nil, game.Move{}, err
	}
	m := game.Move{To: to}
	if req.Promotion != "" {
		if m.Promotion, err = board.ParsePieceType(req.Promotion); err != nil {
			return nil, game.Move{}, &game.MoveError{To: to, Err: errors.Join(game.ErrIllegalMove, err)}
		}
	}

	p := s.game.PieceAt(from)
	if p == nil {
		return nil, game.Move{}, &game.MoveError{To: to, Err: game.ErrIllegalMove}
	}
	return p, m, nil
}

// fail maps rule errors to status codes.
func (s *Server) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, board.ErrInvalidCoordinate):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrUnknownPiece):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrOutOfTurn):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("httpapi: game %s: %v", s.gameID(), err)
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

// History returns the recorded moves.
func (s *Server) History(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []recordView{}
	for _, r := range s.game.History() {
		records = append(records, newRecordView(r))
	}
	ctx.JSON(http.StatusOK, gin.H{
		"id":    s.gameID(),
		"moves": records,
	})
}

// NewGame abandons the current game and starts over.
func (s *Server) NewGame(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(); err != nil {
		log.Printf("httpapi: new game: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, s.boardView())
}

// Games lists stored games.
func (s *Server) Games(ctx *gin.Context) {
	if s.store == nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	games, err := s.store.ListGames()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"games": games})
}

// Stats returns result counts over stored games.
func (s *Server) Stats(ctx *gin.Context) {
	if s.store == nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	stats, err := s.store.LoadStats()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
