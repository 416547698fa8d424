package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/console"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	resume     = flag.String("resume", "", "continue the stored game with this ID")
	listGames  = flag.Bool("list", false, "list stored games and exit")
	usage      = flag.Bool("env", false, "print the environment variables and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *usage {
		if err := config.Usage(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	b, err := cfg.BoardExtents()
	if err != nil {
		log.Fatal(err)
	}
	setup, err := cfg.InitialSetup(b)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	promo, err := cfg.PromotionPiece()
	if err != nil {
		log.Fatal(err)
	}
	opts := []game.Option{game.WithDefaultPromotion(promo)}

	store, err := openStorage(cfg)
	if err != nil {
		log.Printf("Warning: move log unavailable: %v (games will not be saved)", err)
	}
	if store != nil {
		defer store.Close()
	}

	if *listGames {
		printGames(store)
		return
	}

	first := true
	newGame := func() (*game.Game, error) {
		if first && *resume != "" {
			first = false
			if store == nil {
				return nil, storage.ErrGameNotFound
			}
			g, _, err := store.ResumeRecording(*resume, opts...)
			return g, err
		}
		first = false
		if store == nil {
			return game.New(b, setup, opts...)
		}
		g, err := game.New(b, setup, opts...)
		if err != nil {
			return nil, err
		}
		id, err := store.CreateGame(b, setup)
		if err != nil {
			return nil, err
		}
		log.Printf("game %s", id)
		g.Observe(storage.NewRecorder(store, id))
		return g, nil
	}

	c, err := console.New(newGame)
	if err != nil {
		log.Fatal(err)
	}
	if err := c.Run(os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// openStorage opens the move log the configuration asks for.
func openStorage(cfg *config.Configuration) (*storage.Storage, error) {
	if cfg.InMemory {
		return storage.OpenInMemory()
	}
	return storage.Open(cfg.Dir)
}

func printGames(store *storage.Storage) {
	if store == nil {
		return
	}
	games, err := store.ListGames()
	if err != nil {
		log.Fatal(err)
	}
	for _, g := range games {
		log.Printf("%s\t%dx%d\t%d plies\t%s\t%s", g.ID, g.Rows, g.Cols, g.Plies, g.Result, g.Started.Format("2006-01-02 15:04"))
	}
	stats, err := store.LoadStats()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d finished: %d-%d-%d, %.1f plies on average",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.AveragePlies())
}
