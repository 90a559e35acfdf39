// Host mode: runs an embedded server, joins it over loopback as the host
// player, and advertises the arena on the LAN.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okiba/blastarena/internal/discovery"
	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/session"
	"github.com/okiba/blastarena/internal/ui"
)

func main() {
	port := flag.Int("port", 9999, "Port to listen on")
	name := flag.String("name", "Host", "Your player name")
	arenaName := flag.String("arena", "Blast Arena", "Advertised arena name")
	mapPath := flag.String("map", "", "Map file (generated arena when empty)")
	maxPlayers := flag.Int("max-players", 4, "Maximum number of players")
	logFile := flag.String("log", "", "Log file path (default: discard server logs)")
	flag.Parse()

	// Redirect log output before any server goroutine runs; stderr writes
	// would corrupt Bubbletea's terminal rendering.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := game.DefaultConfig()
	cfg.MaxPlayers = *maxPlayers
	cfg.Seed = time.Now().UnixNano()

	var arena game.Arena
	if *mapPath != "" {
		var err error
		arena, err = game.LoadArenaFile(*mapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load map %s: %v\n", *mapPath, err)
			os.Exit(2)
		}
		cfg.Width = arena.Grid.Width
		cfg.Height = arena.Grid.Height
	} else {
		arena = game.GenerateArena(cfg)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	server := session.NewServer(addr, cfg, arena, "")
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}

	// Give the listener a moment before dialing it.
	time.Sleep(200 * time.Millisecond)

	clientAddr := fmt.Sprintf("127.0.0.1:%d", *port)
	client, err := session.Dial(clientAddr, *name)
	if err != nil {
		server.Stop()
		fmt.Fprintf(os.Stderr, "Failed to connect as host: %v\n", err)
		os.Exit(1)
	}

	announcer := discovery.NewAnnouncer(discovery.ArenaInfo{
		ArenaName:   *arenaName,
		HostName:    *name,
		PlayerCount: 1,
		MaxPlayers:  *maxPlayers,
		Addr:        server.Addr(),
	})
	announcer.Start()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-announcer.Done():
				return
			case <-ticker.C:
				announcer.SetPlayerCount(server.PlayerCount())
			}
		}
	}()

	fmt.Printf("Blast Arena server on port %d\n", *port)
	printLocalAddrs(*port)
	fmt.Printf("\nConnected as %s. Starting TUI...\n", *name)
	time.Sleep(500 * time.Millisecond)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		announcer.Stop()
		client.Close()
		server.Stop()
		os.Exit(0)
	}()

	model := ui.NewModel(client)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		announcer.Stop()
		client.Close()
		server.Stop()
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	announcer.Stop()
	client.Close()
	server.Stop()
}

// printLocalAddrs prints the addresses other players can connect to.
func printLocalAddrs(port int) {
	fmt.Println("Players can connect using:")
	fmt.Printf("  127.0.0.1:%d (this machine)\n", port)

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				fmt.Printf("  %s:%d\n", ipnet.IP.String(), port)
			}
		}
	}
}
