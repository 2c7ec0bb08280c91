package models

// Market identifies one of the two tracked market segments.
type Market string

const (
	MarketCrypto Market = "crypto"
	MarketStock  Market = "stock"
)

// Valid reports whether m is a known market.
func (m Market) Valid() bool {
	return m == MarketCrypto || m == MarketStock
}

// TimeRange is the chart/query window selected by the user.
type TimeRange string

const (
	Range1D TimeRange = "1D"
	Range1W TimeRange = "1W"
	Range1M TimeRange = "1M"
	Range1Y TimeRange = "1Y"
)

// Valid reports whether r is a known time range.
func (r TimeRange) Valid() bool {
	switch r {
	case Range1D, Range1W, Range1M, Range1Y:
		return true
	}
	return false
}

// MarketState is the current market/time-range selection.
type MarketState struct {
	Market    Market    `json:"market"`
	TimeRange TimeRange `json:"time_range"`
}

// Instrument is a tradable symbol with its display name.
type Instrument struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Instruments returns the instruments belonging to a market.
func Instruments(m Market) []Instrument {
	switch m {
	case MarketCrypto:
		return []Instrument{
			{ID: "BTC", DisplayName: "Bitcoin"},
			{ID: "ETH", DisplayName: "Ethereum"},
			{ID: "SOL", DisplayName: "Solana"},
			{ID: "XRP", DisplayName: "XRP"},
			{ID: "ADA", DisplayName: "Cardano"},
			{ID: "DOGE", DisplayName: "Dogecoin"},
		}
	case MarketStock:
		return []Instrument{
			{ID: "AAPL", DisplayName: "Apple"},
			{ID: "MSFT", DisplayName: "Microsoft"},
			{ID: "NVDA", DisplayName: "NVIDIA"},
			{ID: "TSLA", DisplayName: "Tesla"},
			{ID: "AMZN", DisplayName: "Amazon"},
			{ID: "GOOGL", DisplayName: "Alphabet"},
		}
	}
	return nil
}
