package marketdata

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"btc", "BTCUSDT"},
		{"BTC-USDT", "BTCUSDT"},
		{"sol/usdc", "SOLUSDC"},
		{" eth_usd ", "ETHUSD"},
		{"DOGEUSDT", "DOGEUSDT"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitPair(t *testing.T) {
	base, quote := SplitPair("BTCUSDT")
	if base != "BTC" || quote != "USDT" {
		t.Fatalf("got %q/%q", base, quote)
	}
	base, quote = SplitPair("XYZ")
	if base != "XYZ" || quote != "" {
		t.Fatalf("got %q/%q", base, quote)
	}
}

func TestKrakenPairUsesXBT(t *testing.T) {
	if got := KrakenPair("btcusdt"); got != "XBTUSDT" {
		t.Fatalf("got %q", got)
	}
	if got := KrakenPair("ETH"); got != "ETHUSDT" {
		t.Fatalf("got %q", got)
	}
}

func TestOKXInstrumentDashForm(t *testing.T) {
	if got := OKXInstrument("solusdt"); got != "SOL-USDT" {
		t.Fatalf("got %q", got)
	}
}

func TestBinanceSymbolCanonical(t *testing.T) {
	if got := BinanceSymbol("btc-usdt"); got != "BTCUSDT" {
		t.Fatalf("got %q", got)
	}
}
