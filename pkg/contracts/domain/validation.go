package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across requests; Validate registrations happen once.
var validate = validator.New()

// Normalized returns a copy of the request with defaults applied and
// duplicates removed: empty Methods become AllMethods, indicator names
// are trimmed, and repeated entries keep their first position.
func (r AnalysisRequest) Normalized() AnalysisRequest {
	if len(r.Methods) == 0 {
		r.Methods = AllMethods()
	} else {
		seen := make(map[Method]bool, len(r.Methods))
		methods := make([]Method, 0, len(r.Methods))
		for _, m := range r.Methods {
			if !seen[m] {
				seen[m] = true
				methods = append(methods, m)
			}
		}
		r.Methods = methods
	}

	if len(r.Indicators) > 0 {
		seen := make(map[string]bool, len(r.Indicators))
		indicators := make([]string, 0, len(r.Indicators))
		for _, ind := range r.Indicators {
			ind = strings.TrimSpace(ind)
			if ind == "" || seen[ind] {
				continue
			}
			seen[ind] = true
			indicators = append(indicators, ind)
		}
		r.Indicators = indicators
	}

	return r
}

// Validate checks the request against its struct tags plus the semantic
// rules the tags cannot express.
func (r AnalysisRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid analysis request: %w", err)
	}

	if !r.DateRange.From.IsZero() && !r.DateRange.To.IsZero() && r.DateRange.From.After(r.DateRange.To) {
		return fmt.Errorf("invalid analysis request: date range starts after it ends")
	}

	if r.MissingStrategy == StrategyConstant {
		if math.IsNaN(r.FillValue) || math.IsInf(r.FillValue, 0) {
			return fmt.Errorf("invalid analysis request: fill value must be finite")
		}
	}

	return nil
}
