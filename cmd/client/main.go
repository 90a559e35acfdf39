package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okiba/blastarena/internal/session"
	"github.com/okiba/blastarena/internal/ui"
)

func main() {
	addr := flag.String("addr", "", "Server address (e.g., 192.168.1.5:9999)")
	name := flag.String("name", "Player", "Your player name")
	logFile := flag.String("log", "", "Log file path (default: discard client logs)")
	flag.Parse()

	if *addr == "" {
		fmt.Fprintln(os.Stderr, "Usage: client --addr <host:port> [--name <name>]")
		fmt.Fprintln(os.Stderr, "  Example: client --addr 192.168.1.5:9999 --name Alice")
		os.Exit(1)
	}

	// Stray log output would corrupt Bubbletea's terminal rendering.
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

	fmt.Printf("Connecting to %s as %s...\n", *addr, *name)

	client, err := session.Dial(*addr, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("Connected! Player ID: %d\n", client.PlayerID())
	time.Sleep(500 * time.Millisecond)

	model := ui.NewModel(client)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
