package usecase

import (
    "testing"

    "PulseWatch/internal/domain/models"
)

func TestMarketStateDefaults(t *testing.T) {
    s := NewMarketStateStore(models.MarketCrypto, models.Range1D)
    st := s.Get()
    if st.Market != models.MarketCrypto || st.TimeRange != models.Range1D {
        t.Fatalf("unexpected initial state %+v", st)
    }
}

func TestMarketStateIndependentUpdates(t *testing.T) {
    s := NewMarketStateStore(models.MarketCrypto, models.Range1D)

    s.SetMarket(models.MarketStock)
    if st := s.Get(); st.Market != models.MarketStock || st.TimeRange != models.Range1D {
        t.Fatalf("market update must not touch time range: %+v", st)
    }

    s.SetTimeRange(models.Range1M)
    if st := s.Get(); st.Market != models.MarketStock || st.TimeRange != models.Range1M {
        t.Fatalf("time range update must not touch market: %+v", st)
    }
}
