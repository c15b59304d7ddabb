package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/pkg/logger"

	"github.com/gorilla/websocket"
)

const tapeCapacity = 4096

// Stream maintains a public-trades WebSocket subscription and serves a
// rolling buy/sell volume split to the snapshot builder. It reconnects
// forever until its context is cancelled.
type Stream struct {
	url            string
	instruments    []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	conn *websocket.Conn

	mu     sync.RWMutex
	trades []tapeTrade // ring, oldest overwritten
	next   int
	filled bool
}

var _ domrepo.TradeTape = (*Stream)(nil)

type tapeTrade struct {
	at    time.Time
	inst  string
	quote float64
	buy   bool
}

// New creates an OKX trade stream for the given instrument IDs.
func New(url string, instruments []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) *Stream {
	if reconnectDelay == 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval == 0 {
		pingInterval = 20 * time.Second
	}
	return &Stream{
		url:            url,
		instruments:    instruments,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		trades:         make([]tapeTrade, tapeCapacity),
	}
}

// Run connects, subscribes, and consumes trade frames until ctx is done.
// Connection errors trigger a delayed reconnect, never a return.
func (s *Stream) Run(ctx context.Context) {
	for {
		if err := s.connectAndConsume(ctx); err != nil {
			s.log.Warn("okx stream disconnected", logger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) connectAndConsume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("okx dial: %w", err)
	}
	s.conn = conn
	defer conn.Close()

	if err := s.subscribe(); err != nil {
		return err
	}
	s.log.Info("okx stream connected", logger.Strings("instruments", s.instruments))

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go s.pingLoop(pingCtx, conn)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("okx read: %w", err)
		}
		s.handleFrame(b)
	}
}

func (s *Stream) subscribe() error {
	args := make([]map[string]string, 0, len(s.instruments))
	for _, inst := range s.instruments {
		args = append(args, map[string]string{"channel": "trades", "instId": inst})
	}
	msg := map[string]interface{}{"op": "subscribe", "args": args}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("okx subscribe: %w", err)
	}
	return nil
}

func (s *Stream) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// OKX expects a literal "ping" text frame
			_ = conn.WriteMessage(websocket.TextMessage, []byte("ping"))
		}
	}
}

type tradeFrame struct {
	Arg struct {
		Channel string `json:"channel"`
		InstID  string `json:"instId"`
	} `json:"arg"`
	Data []struct {
		Px   json.Number `json:"px"`
		Sz   json.Number `json:"sz"`
		Side string      `json:"side"`
		Ts   json.Number `json:"ts"`
	} `json:"data"`
}

func (s *Stream) handleFrame(b []byte) {
	if string(b) == "pong" {
		return
	}
	var f tradeFrame
	if err := json.Unmarshal(b, &f); err != nil {
		return // ignore non-JSON and event frames
	}
	if f.Arg.Channel != "trades" || len(f.Data) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range f.Data {
		px, perr := d.Px.Float64()
		sz, serr := d.Sz.Float64()
		if perr != nil || serr != nil {
			continue
		}
		at := time.Now()
		if ms, err := d.Ts.Int64(); err == nil && ms > 0 {
			at = time.UnixMilli(ms)
		}
		s.trades[s.next] = tapeTrade{at: at, inst: f.Arg.InstID, quote: px * sz, buy: d.Side == "buy"}
		s.next++
		if s.next == tapeCapacity {
			s.next = 0
			s.filled = true
		}
	}
}

// BuySellVolume sums the taker-side quote volume of one instrument's trades
// within the window. ok is false when the buffer holds nothing fresh enough,
// signalling the caller to fall back to a REST tape.
func (s *Stream) BuySellVolume(instrument string, window time.Duration) (buy, sell float64, ok bool) {
	cutoff := time.Now().Add(-window)

	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.next
	if s.filled {
		n = tapeCapacity
	}
	for i := 0; i < n; i++ {
		t := s.trades[i]
		if t.inst != instrument || t.at.Before(cutoff) {
			continue
		}
		if t.buy {
			buy += t.quote
		} else {
			sell += t.quote
		}
		ok = true
	}
	return buy, sell, ok
}
