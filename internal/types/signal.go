package types

import "time"

// SignalDirection classifies one bar of one indicator's output.
type SignalDirection string

const (
	// SignalBuy marks a bar where the indicator confirmed a buy crossing
	SignalBuy SignalDirection = "buy"
	// SignalSell marks a bar where the indicator confirmed a sell crossing
	SignalSell SignalDirection = "sell"
	// SignalHold marks a bar with no crossing (including warm-up bars)
	SignalHold SignalDirection = "hold"
)

// Opposite returns the mirrored direction. Hold maps to itself.
func (d SignalDirection) Opposite() SignalDirection {
	switch d {
	case SignalBuy:
		return SignalSell
	case SignalSell:
		return SignalBuy
	default:
		return SignalHold
	}
}

// Signal is one confirmed crossing produced by one indicator on one bar.
type Signal struct {
	// Time is the bar date the crossing was confirmed on
	Time time.Time
	// Direction is buy or sell (tables never store hold entries)
	Direction SignalDirection
	// Indicator is the indicator that produced the signal
	Indicator IndicatorType
	// Symbol is the ticker the signal belongs to
	Symbol string
	// Price is the closing price on the crossing bar
	Price float64
}

// SignalTable is the ordered crossing history of one indicator over one
// price series. Bars without a crossing are not stored; their direction is
// implicitly hold.
type SignalTable struct {
	Indicator IndicatorType
	Signals   []Signal
}

// Latest returns the most recent crossing in the table.
func (t SignalTable) Latest() (Signal, bool) {
	if len(t.Signals) == 0 {
		return Signal{}, false
	}

	return t.Signals[len(t.Signals)-1], true
}

// LatestOnOrAfter returns the most recent crossing dated on or after cutoff.
func (t SignalTable) LatestOnOrAfter(cutoff time.Time) (Signal, bool) {
	for i := len(t.Signals) - 1; i >= 0; i-- {
		if !t.Signals[i].Time.Before(cutoff) {
			return t.Signals[i], true
		}
	}

	return Signal{}, false
}

// CrossingsInRange returns the crossings matching direction with dates in
// [from, to], preserving order.
func (t SignalTable) CrossingsInRange(direction SignalDirection, from, to time.Time) []Signal {
	var out []Signal

	for _, s := range t.Signals {
		if s.Direction != direction {
			continue
		}

		if s.Time.Before(from) || s.Time.After(to) {
			continue
		}

		out = append(out, s)
	}

	return out
}
