// Package discovery advertises hosted arenas on the local network over UDP
// broadcast and collects advertisements from other hosts, so the host-mode
// join screen can list games without manual address entry.
package discovery

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const (
	// BroadcastPort is the UDP port used for arena discovery.
	BroadcastPort = 9919
	// BroadcastInterval is how often hosts advertise their arena.
	BroadcastInterval = 1 * time.Second
	// ArenaExpiry is how long an arena stays listed after its last
	// advertisement.
	ArenaExpiry = 4 * time.Second
)

// ArenaInfo describes a hosted arena on the network.
type ArenaInfo struct {
	ArenaName   string `json:"arena_name"`
	HostName    string `json:"host_name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Addr        string `json:"addr"` // TCP host:port of the game server
}

// Announcer periodically broadcasts an arena advertisement.
type Announcer struct {
	mu   sync.Mutex
	info ArenaInfo
	done chan struct{}
	once sync.Once
}

// NewAnnouncer creates an announcer for the given arena.
func NewAnnouncer(info ArenaInfo) *Announcer {
	return &Announcer{
		info: info,
		done: make(chan struct{}),
	}
}

// SetPlayerCount updates the advertised player count.
func (a *Announcer) SetPlayerCount(count int) {
	a.mu.Lock()
	a.info.PlayerCount = count
	a.mu.Unlock()
}

// Start begins broadcasting in the background.
func (a *Announcer) Start() {
	go a.loop()
}

// Stop halts the announcer.
func (a *Announcer) Stop() {
	a.once.Do(func() { close(a.done) })
}

// Done is closed when the announcer stops. Callers refreshing the
// advertisement from their own goroutine select on it to exit.
func (a *Announcer) Done() <-chan struct{} {
	return a.done
}

func (a *Announcer) loop() {
	// ListenPacket instead of DialUDP: dialing 255.255.255.255 silently
	// fails on Linux without SO_BROADCAST.
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		log.Printf("[DISCOVERY] Broadcast socket: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	a.announce(conn)
	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.announce(conn)
		}
	}
}

func (a *Announcer) announce(conn net.PacketConn) {
	a.mu.Lock()
	data, err := json.Marshal(a.info)
	a.mu.Unlock()
	if err != nil {
		return
	}

	// Loopback first: global broadcast is often filtered, and same-machine
	// discovery should always work.
	conn.WriteTo(data, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: BroadcastPort})
	conn.WriteTo(data, &net.UDPAddr{IP: net.IPv4bcast, Port: BroadcastPort})

	// Per-interface broadcast addresses as a fallback.
	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			bcast := make(net.IP, 4)
			ip4 := ipnet.IP.To4()
			for i := range bcast {
				bcast[i] = ip4[i] | ^ipnet.Mask[i]
			}
			conn.WriteTo(data, &net.UDPAddr{IP: bcast, Port: BroadcastPort})
		}
	}
}

// seenArena pairs an advertisement with its last-seen time.
type seenArena struct {
	info     ArenaInfo
	lastSeen time.Time
}

// Browser listens for arena advertisements and expires stale ones.
type Browser struct {
	mu     sync.RWMutex
	arenas map[string]*seenArena // keyed by Addr
	conn   *net.UDPConn
	done   chan struct{}
	once   sync.Once
}

// NewBrowser creates an idle browser.
func NewBrowser() *Browser {
	return &Browser{
		arenas: make(map[string]*seenArena),
		done:   make(chan struct{}),
	}
}

// Start binds the discovery port and begins collecting advertisements.
func (b *Browser) Start() error {
	var err error
	b.conn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: BroadcastPort})
	if err != nil {
		return fmt.Errorf("listen UDP %d: %w", BroadcastPort, err)
	}
	go b.listenLoop()
	go b.expireLoop()
	return nil
}

// Stop halts the browser.
func (b *Browser) Stop() {
	b.once.Do(func() {
		close(b.done)
		if b.conn != nil {
			b.conn.Close()
		}
	})
}

// Arenas returns the currently visible arenas.
func (b *Browser) Arenas() []ArenaInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ArenaInfo, 0, len(b.arenas))
	for _, sa := range b.arenas {
		out = append(out, sa.info)
	}
	return out
}

func (b *Browser) listenLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-b.done:
			return
		default:
		}

		b.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := b.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		var info ArenaInfo
		if err := json.Unmarshal(buf[:n], &info); err != nil {
			continue
		}

		b.mu.Lock()
		b.arenas[info.Addr] = &seenArena{info: info, lastSeen: time.Now()}
		b.mu.Unlock()
	}
}

func (b *Browser) expireLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			now := time.Now()
			b.mu.Lock()
			for addr, sa := range b.arenas {
				if now.Sub(sa.lastSeen) > ArenaExpiry {
					delete(b.arenas, addr)
				}
			}
			b.mu.Unlock()
		}
	}
}
