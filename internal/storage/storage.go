package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// Storage keys
const (
	keyStats      = "stats"
	keyGameSeq    = "seq/game"
	prefixGame    = "game/"
	suffixMeta    = "/meta"
	infixPly      = "/ply/"
	seqBandwidth  = 16
	plyKeyDigits  = 6
	resultPending = "*"
)

// ErrGameNotFound is returned when no game is stored under an ID.
var ErrGameNotFound = errors.New("game not found")

// GameMeta describes a stored game. Setup holds one "color,variant,file,rank"
// record per piece.
type GameMeta struct {
	ID       string    `json:"id"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Setup    []string  `json:"setup"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitempty"`
	Result   string    `json:"result"`
	Plies    int       `json:"plies"`
}

// Board returns the stored board extents.
func (m *GameMeta) Board() (board.Board, error) {
	return board.New(m.Rows, m.Cols)
}

// Placements parses the stored setup.
func (m *GameMeta) Placements() ([]game.Placement, error) {
	b, err := m.Board()
	if err != nil {
		return nil, err
	}
	return game.ParseSetupCSV(strings.NewReader(strings.Join(m.Setup, "\n")), b)
}

// GameStats stores result counts over all finished games.
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
	TotalPlies  int `json:"total_plies"`
}

// AveragePlies returns the mean game length, or 0 before any game finished.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens the move log in dir, or in the platform data directory when dir
// is empty.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = MoveLogDir(); err != nil {
			return nil, err
		}
		log.Printf("storage: move log in %s", dir)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a move log that is discarded on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func metaKey(id string) []byte {
	return []byte(prefixGame + id + suffixMeta)
}

func plyPrefix(id string) []byte {
	return []byte(prefixGame + id + infixPly)
}

func plyKey(id string, ply int) []byte {
	return []byte(fmt.Sprintf("%s%s%s%0*d", prefixGame, id, infixPly, plyKeyDigits, ply))
}

// CreateGame stores a new game's board and setup and returns its ID.
func (s *Storage) CreateGame(b board.Board, setup []game.Placement) (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", err
	}
	meta := GameMeta{
		ID:      strconv.FormatUint(n+1, 10),
		Rows:    b.Rows,
		Cols:    b.Cols,
		Started: time.Now(),
		Result:  resultPending,
	}
	for _, pl := range setup {
		meta.Setup = append(meta.Setup, pl.String())
	}

	data, err := json.Marshal(&meta)
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(meta.ID), data)
	})
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

// LoadGame loads a game's metadata.
func (s *Storage) LoadGame(id string) (*GameMeta, error) {
	var meta GameMeta
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, metaKey(id), &meta)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// AppendMove stores one history record under the game's next ply key.
func (s *Storage) AppendMove(id string, rec game.Record) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var meta GameMeta
		if err := getJSON(txn, metaKey(id), &meta); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, id)
			}
			return err
		}
		meta.Plies++
		if err := setJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		return txn.Set(plyKey(id, meta.Plies), []byte(rec.Notation))
	})
}

// LoadMoves returns the game's recorded notations in order.
func (s *Storage) LoadMoves(id string) ([]string, error) {
	var moves []string
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, id)
			}
			return err
		}

		prefix := plyPrefix(id)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			moves = append(moves, string(val))
		}
		return nil
	})
	return moves, err
}

// RecordResult stores the final outcome and updates the statistics.
func (s *Storage) RecordResult(id string, out game.Outcome) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var meta GameMeta
		if err := getJSON(txn, metaKey(id), &meta); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, id)
			}
			return err
		}
		if meta.Result != resultPending {
			return nil
		}
		meta.Result = out.String()
		meta.Finished = time.Now()
		if err := setJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}

		stats := NewGameStats()
		if err := getJSON(txn, []byte(keyStats), stats); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		stats.GamesPlayed++
		stats.TotalPlies += meta.Plies
		switch {
		case out.Result == game.Stalemate:
			stats.Draws++
		case out.Winner() == board.White:
			stats.WhiteWins++
		case out.Winner() == board.Black:
			stats.BlackWins++
		}
		return setJSON(txn, []byte(keyStats), stats)
	})
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{}
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		err := getJSON(txn, []byte(keyStats), stats)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		return err
	})
	return stats, err
}

// ListGames returns the metadata of every stored game, oldest first.
func (s *Storage) ListGames() ([]GameMeta, error) {
	var games []GameMeta
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if !strings.HasSuffix(string(item.Key()), suffixMeta) {
				continue
			}
			var meta GameMeta
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return err
			}
			games = append(games, meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys sort as strings, IDs as numbers.
	sortByID(games)
	return games, nil
}

// Resume rebuilds a stored game by replaying its moves.
func (s *Storage) Resume(id string, opts ...game.Option) (*game.Game, error) {
	meta, err := s.LoadGame(id)
	if err != nil {
		return nil, err
	}
	b, err := meta.Board()
	if err != nil {
		return nil, err
	}
	setup, err := meta.Placements()
	if err != nil {
		return nil, err
	}
	moves, err := s.LoadMoves(id)
	if err != nil {
		return nil, err
	}
	return game.Replay(b, setup, moves, opts...)
}

// ResumeRecording resumes a stored game and records its further turns.
func (s *Storage) ResumeRecording(id string, opts ...game.Option) (*game.Game, *Recorder, error) {
	g, err := s.Resume(id, opts...)
	if err != nil {
		return nil, nil, err
	}
	rec := NewRecorder(s, id)
	g.Observe(rec)
	return g, rec, nil
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func sortByID(games []GameMeta) {
	id := func(i int) uint64 {
		n, _ := strconv.ParseUint(games[i].ID, 10, 64)
		return n
	}
	sort.Slice(games, func(i, j int) bool { return id(i) < id(j) })
}
