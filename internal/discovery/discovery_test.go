package discovery

import (
	"testing"
	"time"
)

func TestAnnouncerDoneClosesOnStop(t *testing.T) {
	a := NewAnnouncer(ArenaInfo{ArenaName: "test", Addr: "127.0.0.1:9999"})

	select {
	case <-a.Done():
		t.Fatal("Done closed before Stop")
	default:
	}

	a.Stop()
	a.Stop() // idempotent

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Stop")
	}
}

func TestAnnouncerSetPlayerCount(t *testing.T) {
	a := NewAnnouncer(ArenaInfo{ArenaName: "test", PlayerCount: 1})
	defer a.Stop()

	a.SetPlayerCount(3)

	a.mu.Lock()
	got := a.info.PlayerCount
	a.mu.Unlock()
	if got != 3 {
		t.Errorf("advertised player count %d, want 3", got)
	}
}
