package okx

import (
	"fmt"
	"testing"
	"time"

	"PulseCast/pkg/logger"
)

func testStream(t *testing.T) *Stream {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New("wss://example.invalid/ws", []string{"BTC-USDT", "ETH-USDT"}, time.Second, time.Second, l)
}

func tradeJSON(inst, side string, px, sz float64, at time.Time) []byte {
	return []byte(fmt.Sprintf(
		`{"arg":{"channel":"trades","instId":"%s"},"data":[{"px":"%v","sz":"%v","side":"%s","ts":"%d"}]}`,
		inst, px, sz, side, at.UnixMilli()))
}

func TestStreamFiltersByInstrument(t *testing.T) {
	s := testStream(t)
	now := time.Now()
	s.handleFrame(tradeJSON("BTC-USDT", "buy", 50000, 0.002, now))
	s.handleFrame(tradeJSON("BTC-USDT", "sell", 50000, 0.001, now))
	s.handleFrame(tradeJSON("ETH-USDT", "buy", 3000, 1, now))

	buy, sell, ok := s.BuySellVolume("BTC-USDT", time.Minute)
	if !ok {
		t.Fatalf("expected fresh tape")
	}
	if buy != 100 || sell != 50 {
		t.Fatalf("got buy=%v sell=%v, want 100/50", buy, sell)
	}

	buy, _, ok = s.BuySellVolume("ETH-USDT", time.Minute)
	if !ok || buy != 3000 {
		t.Fatalf("eth tape buy=%v ok=%v", buy, ok)
	}
}

func TestStreamIgnoresStaleTrades(t *testing.T) {
	s := testStream(t)
	s.handleFrame(tradeJSON("BTC-USDT", "buy", 50000, 1, time.Now().Add(-10*time.Minute)))
	if _, _, ok := s.BuySellVolume("BTC-USDT", time.Minute); ok {
		t.Fatalf("stale trades should not report a fresh tape")
	}
}

func TestStreamIgnoresControlFrames(t *testing.T) {
	s := testStream(t)
	s.handleFrame([]byte("pong"))
	s.handleFrame([]byte(`{"event":"subscribe","arg":{"channel":"trades","instId":"BTC-USDT"}}`))
	if _, _, ok := s.BuySellVolume("BTC-USDT", time.Minute); ok {
		t.Fatalf("control frames must not populate the tape")
	}
}

func TestStreamRingWraps(t *testing.T) {
	s := testStream(t)
	now := time.Now()
	for i := 0; i < tapeCapacity+10; i++ {
		s.handleFrame(tradeJSON("BTC-USDT", "buy", 1, 1, now))
	}
	buy, _, ok := s.BuySellVolume("BTC-USDT", time.Minute)
	if !ok {
		t.Fatalf("expected fresh tape after wrap")
	}
	if buy != float64(tapeCapacity) {
		t.Fatalf("got %v entries of volume, want %v", buy, tapeCapacity)
	}
}
