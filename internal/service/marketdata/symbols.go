package marketdata

import "strings"

// Canonical symbols are upper-case concatenated pairs ("BTCUSDT"). Each venue
// speaks its own dialect, so the mappers below translate outbound only; all
// internal state is keyed by the canonical form.

// Normalize canonicalizes user input: trims, upper-cases, strips separators,
// and appends USDT when only a base asset was given.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.NewReplacer("-", "", "/", "", "_", "").Replace(s)
	if s == "" {
		return s
	}
	for _, quote := range []string{"USDT", "USDC", "USD", "EUR"} {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s
		}
	}
	return s + "USDT"
}

// SplitPair separates a canonical symbol into base and quote assets.
func SplitPair(symbol string) (base, quote string) {
	for _, q := range []string{"USDT", "USDC", "USD", "EUR"} {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return symbol[:len(symbol)-len(q)], q
		}
	}
	return symbol, ""
}

// KrakenPair maps a canonical symbol to Kraken's pair naming. Kraken calls
// bitcoin XBT and accepts the concatenated form for spot pairs.
func KrakenPair(symbol string) string {
	base, quote := SplitPair(Normalize(symbol))
	if base == "BTC" {
		base = "XBT"
	}
	return base + quote
}

// OKXInstrument maps a canonical symbol to OKX's dash-separated instrument ID.
func OKXInstrument(symbol string) string {
	base, quote := SplitPair(Normalize(symbol))
	if quote == "" {
		return base
	}
	return base + "-" + quote
}

// BinanceSymbol maps a canonical symbol to Binance futures naming, which
// matches the canonical form.
func BinanceSymbol(symbol string) string {
	return Normalize(symbol)
}
