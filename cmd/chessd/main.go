package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/httpapi"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	release = flag.Bool("release", false, "run gin in release mode")
	usage   = flag.Bool("env", false, "print the environment variables and exit")
)

func main() {
	flag.Parse()

	if *usage {
		if err := config.Usage(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *release {
		gin.SetMode(gin.ReleaseMode)
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

	var store *storage.Storage
	if cfg.InMemory {
		store, err = storage.OpenInMemory()
	} else {
		store, err = storage.Open(cfg.Dir)
	}
	if err != nil {
		log.Fatalf("open move log: %v", err)
	}
	defer store.Close()

	srv, err := httpapi.NewServer(httpapi.NewGameConfig{
		Board:   b,
		Setup:   setup,
		Options: []game.Option{game.WithDefaultPromotion(promo)},
	}, store)
	if err != nil {
		log.Fatal(err)
	}
	if err := srv.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
