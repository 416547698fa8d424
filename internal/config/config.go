// Package config reads process configuration from CHESS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// Prefix is prepended to every variable name.
const Prefix = "CHESS"

// ErrInvalidConfig indicates a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

type Board struct {
	Rows    int `envconfig:"BOARD_ROWS" default:"8" desc:"number of ranks (1-26)"`
	Columns int `envconfig:"BOARD_COLUMNS" default:"8" desc:"number of files (1-26)"`
}

type Setup struct {
	File      string `envconfig:"SETUP_FILE" desc:"CSV setup file; empty for the standard start"`
	Promotion string `envconfig:"PROMOTION" default:"Queen" desc:"promotion piece when a move does not name one"`
}

type Storage struct {
	Dir      string `envconfig:"STORAGE_DIR" desc:"move log directory; empty for the platform data directory"`
	InMemory bool   `envconfig:"STORAGE_IN_MEMORY" default:"false" desc:"keep the move log in memory only"`
}

type Server struct {
	Host string `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// Configuration groups are embedded so their variables share the CHESS_ prefix.
type Configuration struct {
	Board
	Setup
	Storage
	Server
}

// Load reads and validates the configuration from the environment.
func Load() (*Configuration, error) {
	cfg := &Configuration{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage writes the variable table to w.
func Usage(w io.Writer) error {
	return envconfig.Usagef(Prefix, &Configuration{}, w, envconfig.DefaultTableFormat)
}

// Validate checks ranges and names.
func (c *Configuration) Validate() error {
	if c.Rows < 1 || c.Rows > board.MaxColumns {
		return fmt.Errorf("%w: %s_BOARD_ROWS=%d, want 1-%d", ErrInvalidConfig, Prefix, c.Rows, board.MaxColumns)
	}
	if c.Columns < 1 || c.Columns > board.MaxColumns {
		return fmt.Errorf("%w: %s_BOARD_COLUMNS=%d, want 1-%d", ErrInvalidConfig, Prefix, c.Columns, board.MaxColumns)
	}
	if _, err := c.PromotionPiece(); err != nil {
		return err
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %s_SERVER_PORT=%d", ErrInvalidConfig, Prefix, c.Port)
	}
	return nil
}

// BoardExtents returns the configured board.
func (c *Configuration) BoardExtents() (board.Board, error) {
	return board.New(c.Rows, c.Columns)
}

// PromotionPiece returns the configured default promotion.
func (c *Configuration) PromotionPiece() (board.PieceType, error) {
	pt, err := board.ParsePieceType(c.Promotion)
	if err != nil || !pt.IsPromotionTarget() {
		return board.NoPieceType, fmt.Errorf("%w: %s_PROMOTION=%q, want Knight, Bishop, Rook or Queen", ErrInvalidConfig, Prefix, c.Promotion)
	}
	return pt, nil
}

// InitialSetup returns the placement new games start from: the setup file
// when one is configured, the standard start otherwise.
func (c *Configuration) InitialSetup(b board.Board) ([]game.Placement, error) {
	if c.File == "" {
		return game.StandardSetup(b)
	}
	f, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return game.ParseSetupCSV(f, b)
}

// Addr returns host:port for the HTTP listener.
func (c *Configuration) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
