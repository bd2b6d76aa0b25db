package analysis

import (
	"fmt"
	"log/slog"

	apperrors "envcli/internal/errors"
	"envcli/pkg/contracts/domain"
)

// Resolver applies one missing-value strategy to normalized series.
// The input series is never mutated; resolution returns a fresh series
// containing only non-missing readings.
type Resolver struct {
	strategy domain.MissingStrategy
	fill     float64
	logger   *slog.Logger
}

// NewResolver creates a resolver for the given strategy. The fill value
// is only consulted by the constant strategy.
func NewResolver(strategy domain.MissingStrategy, fill float64, logger *slog.Logger) (*Resolver, error) {
	if !strategy.Valid() {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown missing-value strategy %q", strategy), nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{strategy: strategy, fill: fill, logger: logger}, nil
}

// Resolve removes or fills the missing readings of a series. The
// returned diagnostics count how many readings were filled and how many
// had to be dropped because the strategy could not resolve them.
func (r *Resolver) Resolve(s domain.Series) (domain.Series, domain.Diagnostics) {
	var diag domain.Diagnostics
	if s.MissingCount() == 0 {
		return s, diag
	}

	out := domain.Series{
		Indicator: s.Indicator,
		Readings:  make([]domain.Reading, 0, s.Len()),
	}

	switch r.strategy {
	case domain.StrategyDrop:
		for _, reading := range s.Readings {
			if reading.Missing {
				diag.ReadingsDropped++
				continue
			}
			out.Readings = append(out.Readings, reading)
		}

	case domain.StrategyConstant:
		for _, reading := range s.Readings {
			if reading.Missing {
				reading.Value = r.fill
				reading.Missing = false
				diag.ReadingsResolved++
			}
			out.Readings = append(out.Readings, reading)
		}

	case domain.StrategyCarry:
		var last float64
		have := false
		for _, reading := range s.Readings {
			if reading.Missing {
				if !have {
					diag.ReadingsDropped++
					continue
				}
				reading.Value = last
				reading.Missing = false
				diag.ReadingsResolved++
			} else {
				last = reading.Value
				have = true
			}
			out.Readings = append(out.Readings, reading)
		}

	case domain.StrategyInterpolate:
		out.Readings, diag = r.interpolate(s.Readings)
	}

	r.logger.Debug("resolved missing readings",
		slog.String("indicator", s.Indicator),
		slog.String("strategy", string(r.strategy)),
		slog.Int("resolved", diag.ReadingsResolved),
		slog.Int("dropped", diag.ReadingsDropped))

	return out, diag
}

// interpolate fills interior missings linearly by elapsed time between
// the surrounding known readings. Missings before the first or after
// the last known reading have no pair to interpolate between and are
// dropped.
func (r *Resolver) interpolate(readings []domain.Reading) ([]domain.Reading, domain.Diagnostics) {
	var diag domain.Diagnostics

	// nextKnown[i] is the index of the first non-missing reading at or
	// after i, or -1 when none remains.
	nextKnown := make([]int, len(readings))
	next := -1
	for i := len(readings) - 1; i >= 0; i-- {
		if !readings[i].Missing {
			next = i
		}
		nextKnown[i] = next
	}

	out := make([]domain.Reading, 0, len(readings))
	prev := -1
	for i, reading := range readings {
		if !reading.Missing {
			prev = i
			out = append(out, reading)
			continue
		}
		next := nextKnown[i]
		if prev < 0 || next < 0 {
			diag.ReadingsDropped++
			continue
		}

		p, n := readings[prev], readings[next]
		span := n.Timestamp.Sub(p.Timestamp).Seconds()
		elapsed := reading.Timestamp.Sub(p.Timestamp).Seconds()
		reading.Value = p.Value + (n.Value-p.Value)*(elapsed/span)
		reading.Missing = false
		diag.ReadingsResolved++
		out = append(out, reading)
	}

	return out, diag
}
