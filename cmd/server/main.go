package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/session"
)

const (
	exitBindFailure    = 1
	exitMapLoadFailure = 2
)

func main() {
	port := flag.Int("port", 9999, "Port to listen on")
	mapPath := flag.String("map", "", "Map file (generated arena when empty)")
	width := flag.Int("width", 15, "Generated arena width (odd number)")
	height := flag.Int("height", 13, "Generated arena height (odd number)")
	density := flag.Float64("density", 0.4, "Generated arena block density (0.0-1.0)")
	seed := flag.Int64("seed", 0, "Arena generation seed (0 = time-based)")
	tickRate := flag.Int("tick", 20, "Ticks per second")
	minPlayers := flag.Int("min-players", 0, "Auto-start at this many players (0 = wait for start signal)")
	maxPlayers := flag.Int("max-players", 4, "Maximum number of players")
	spectatorAddr := flag.String("spectate", "", "HTTP address for the websocket spectator feed (empty = disabled)")
	logFile := flag.String("log", "", "Log file path (default: stderr)")
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	// Odd dimensions keep the pillar pattern intact.
	if *width%2 == 0 {
		*width++
	}
	if *height%2 == 0 {
		*height++
	}

	cfg := game.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.BlockDensity = *density
	cfg.TickRate = *tickRate
	cfg.MinPlayers = *minPlayers
	cfg.MaxPlayers = *maxPlayers
	if *seed != 0 {
		cfg.Seed = *seed
	} else {
		cfg.Seed = time.Now().UnixNano()
	}

	var arena game.Arena
	if *mapPath != "" {
		var err error
		arena, err = game.LoadArenaFile(*mapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load map %s: %v\n", *mapPath, err)
			os.Exit(exitMapLoadFailure)
		}
		cfg.Width = arena.Grid.Width
		cfg.Height = arena.Grid.Height
	} else {
		arena = game.GenerateArena(cfg)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	server := session.NewServer(addr, cfg, arena, *spectatorAddr)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(exitBindFailure)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[SERVER] Shutting down")
	server.Stop()
}
