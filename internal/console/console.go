// Package console runs a game from a line-oriented text protocol, one
// command per line.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// NewGameFunc starts a fresh game.
type NewGameFunc func() (*game.Game, error)

// Console drives one game at a time from text commands.
type Console struct {
	newGame NewGameFunc
	game    *game.Game
	out     io.Writer
}

// New starts the first game.
func New(newGame NewGameFunc) (*Console, error) {
	g, err := newGame()
	if err != nil {
		return nil, err
	}
	return &Console{newGame: newGame, game: g}, nil
}

// Game returns the current game.
func (c *Console) Game() *game.Game {
	return c.game
}

// Run reads commands from in until "quit" or end of input.
func (c *Console) Run(in io.Reader, out io.Writer) error {
	c.out = out
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			c.handleHelp()
		case "d", "board":
			fmt.Fprint(c.out, c.game.String())
		case "moves":
			c.handleMoves(args)
		case "move":
			c.handleMove(strings.Join(args, " "))
		case "history":
			c.handleHistory()
		case "new":
			c.handleNew()
		case "perft":
			c.handlePerft(args)
		default:
			// Anything else is taken as move text.
			c.handleMove(line)
		}
	}
	return scanner.Err()
}

func (c *Console) handleHelp() {
	fmt.Fprintln(c.out, "commands:")
	fmt.Fprintln(c.out, "  board            show the position")
	fmt.Fprintln(c.out, "  moves <square>   legal moves of the piece on square")
	fmt.Fprintln(c.out, "  move <move>      play a move (e4, Nf3, O-O, e7e8q); 'move' may be omitted")
	fmt.Fprintln(c.out, "  history          moves played so far")
	fmt.Fprintln(c.out, "  new              start a new game")
	fmt.Fprintln(c.out, "  perft <depth>    count move paths, per root move")
	fmt.Fprintln(c.out, "  quit")
}

// handleMoves prints e.g. "e2: e3 e4".
func (c *Console) handleMoves(args []string) {
	if len(args) != 1 {
		c.errorf("usage: moves <square>")
		return
	}
	sq, err := c.game.Board().ParseSquare(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	p := c.game.PieceAt(sq)
	if p == nil {
		c.errorf("no piece on %s", sq)
		return
	}

	targets := make([]string, 0, 8)
	for _, m := range c.game.LegalMoves(p) {
		targets = append(targets, m.To.String())
	}
	fmt.Fprintf(c.out, "%s: %s\n", sq, strings.Join(targets, " "))
}

func (c *Console) handleMove(text string) {
	if text == "" {
		c.errorf("usage: move <move>")
		return
	}
	_, out, err := c.game.Play(text)
	if err != nil {
		c.errorf("%v", err)
		return
	}
	fmt.Fprintln(c.out, out.Record)
	switch out.Result {
	case game.Checkmate:
		fmt.Fprintf(c.out, "checkmate, %s wins %s\n", out.Winner(), out)
	case game.Stalemate:
		fmt.Fprintf(c.out, "stalemate %s\n", out)
	}
}

// handleHistory prints the moves on one line, e.g. "1. e4 e5 2. Nf3".
func (c *Console) handleHistory() {
	fmt.Fprintln(c.out, FormatHistory(c.game.History()))
}

func (c *Console) handleNew() {
	g, err := c.newGame()
	if err != nil {
		c.errorf("new game: %v", err)
		return
	}
	c.game = g
	fmt.Fprintln(c.out, "new game")
}

func (c *Console) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			c.errorf("usage: perft <depth>")
			return
		}
		depth = d
	}

	div := game.Divide(c.game, depth)
	names := make([]string, 0, len(div))
	var total int64
	for n, count := range div {
		names = append(names, n)
		total += count
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(c.out, "%s: %d\n", n, div[n])
	}
	fmt.Fprintf(c.out, "\nNodes searched: %d\n", total)
}

func (c *Console) errorf(format string, args ...any) {
	fmt.Fprintf(c.out, "error: "+format+"\n", args...)
}

// FormatHistory renders records as move-numbered text.
func FormatHistory(records []game.Record) string {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == 0 || r.Color == board.White {
			sb.WriteString(r.String())
		} else {
			sb.WriteString(r.Notation)
		}
	}
	return sb.String()
}
