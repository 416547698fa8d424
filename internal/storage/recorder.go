package storage

import (
	"log"
	"sync"

	"github.com/hailam/chessrules/internal/game"
)

// Recorder writes a game's turns to the move log as they close. It satisfies
// game.Observer. Write failures are logged and kept; the game itself goes on.
type Recorder struct {
	store *Storage
	id    string

	mu  sync.Mutex
	err error
}

// NewRecorder returns a recorder appending to the stored game id.
func NewRecorder(s *Storage, id string) *Recorder {
	return &Recorder{store: s, id: id}
}

// ID returns the stored game ID.
func (r *Recorder) ID() string { return r.id }

// MoveRecorded implements game.Observer.
func (r *Recorder) MoveRecorded(rec game.Record) {
	if err := r.store.AppendMove(r.id, rec); err != nil {
		log.Printf("storage: game %s: append %s: %v", r.id, rec, err)
		r.setErr(err)
	}
}

// GameEnded implements game.Observer.
func (r *Recorder) GameEnded(out game.Outcome) {
	if err := r.store.RecordResult(r.id, out); err != nil {
		log.Printf("storage: game %s: record result %s: %v", r.id, out, err)
		r.setErr(err)
	}
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}
