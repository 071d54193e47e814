package push

import (
	"encoding/json"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/nhle/silent-auction/internal/model"
)

// State describes the push channel's connection lifecycle. It is owned
// exclusively by the Channel; the UI only reads it through StateMsg.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the indicator label for the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "live"
	default:
		return "reconnecting"
	}
}

// StateMsg is a tea.Msg announcing a connection state change.
type StateMsg struct {
	State State
}

// BidUpdateMsg is a tea.Msg carrying one accepted-bid frame from the
// server. Frames are delivered in strict arrival order.
type BidUpdateMsg struct {
	Update model.BidUpdate
}

// Channel owns the persistent push connection to the auction server:
// it dials, classifies disconnects, schedules a single reconnect per
// disconnect after a fixed delay, and forwards parsed frames into the
// Bubble Tea runtime. The channel never sends outbound frames.
type Channel struct {
	url            string
	reconnectDelay time.Duration
	clock          clockwork.Clock

	// msgCh bridges the read goroutine into the Bubble Tea runtime.
	msgCh chan tea.Msg

	mu             sync.Mutex
	state          State
	conn           *websocket.Conn
	reconnectTimer clockwork.Timer
	noReconnect    bool
	stopped        bool
}

// New creates a Channel for the given websocket URL. It does not connect
// until Start is called.
func New(url string, reconnectDelay time.Duration, clock clockwork.Clock) *Channel {
	return &Channel{
		url:            url,
		reconnectDelay: reconnectDelay,
		clock:          clock,
		msgCh:          make(chan tea.Msg, 64),
		state:          StateDisconnected,
	}
}

// Start begins the first connection attempt and returns a command that
// waits for the next channel message. After each delivered message the
// caller must re-arm with Wait to keep listening.
func (c *Channel) Start() tea.Cmd {
	go c.dial()
	return c.Wait()
}

// Wait returns a tea.Cmd that delivers the next push message (a StateMsg
// or BidUpdateMsg) to the Bubble Tea runtime.
func (c *Channel) Wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}

// Stop closes the connection and cancels any pending reconnect. The
// reconnect timer is the only timer the channel ever cancels; a stopped
// channel never reconnects.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true

	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// DisableReconnect cancels any pending reconnect and prevents future
// attempts, while leaving a live connection open so late frames still
// arrive. Used once the auction reaches its terminal state.
func (c *Channel) DisableReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noReconnect = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// dial attempts a single connection and starts the read loop on success.
func (c *Channel) dial() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()
	c.emit(StateMsg{State: StateConnecting})

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.handleDisconnect()
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()
	c.emit(StateMsg{State: StateConnected})

	go c.readLoop(conn)
}

// readLoop reads frames until the connection fails. A frame that does not
// parse is treated as a transport error and tears the connection down
// rather than being surfaced.
func (c *Channel) readLoop(conn *websocket.Conn) {
	defer c.handleDisconnect()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var update model.BidUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			conn.Close()
			return
		}

		c.emit(BidUpdateMsg{Update: update})
	}
}

// handleDisconnect transitions to disconnected and schedules exactly one
// reconnect attempt. A second disconnect signal while a reconnect is
// already pending is a no-op.
func (c *Channel) handleDisconnect() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.state == StateDisconnected && (c.reconnectTimer != nil || c.noReconnect) {
		c.mu.Unlock()
		return
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	if !c.noReconnect {
		c.reconnectTimer = c.clock.AfterFunc(c.reconnectDelay, func() {
			c.mu.Lock()
			c.reconnectTimer = nil
			c.mu.Unlock()
			c.dial()
		})
	}
	c.mu.Unlock()

	c.emit(StateMsg{State: StateDisconnected})
}

// emit forwards a message toward the UI without blocking the read loop.
// Push delivery is best-effort; if the buffer is full the frame is dropped
// and the next catalogue fetch restores truth.
func (c *Channel) emit(msg tea.Msg) {
	select {
	case c.msgCh <- msg:
	default:
	}
}
