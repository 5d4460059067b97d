package strategy

import (
	"github.com/Polqt/sbeschema/internal/sbe/compat"
	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
)

// Validator binds a Strategy to the comparator engine. Check is total
// and side-effect free over its model.Schema inputs, so a Validator
// value may be shared read-only across any number of concurrent checks.
type Validator struct {
	strategy Strategy
}

// NewValidator constructs a Validator enforcing s's minimum verdict.
func NewValidator(s Strategy) Validator {
	return Validator{strategy: s}
}

// Strategy reports the policy this Validator enforces.
func (v Validator) Strategy() Strategy {
	return v.strategy
}

// Check invokes the comparator engine on (latest, current) and returns
// the raw verdict if it meets the strategy's threshold. Otherwise it
// fails with sbeerr.NotCompatible(level), carrying the offending
// verdict for diagnostics. A structural error from the comparator
// itself (MissingVersion, MissingMessageHeader, DuplicateTypeName) is
// propagated unchanged.
func (v Validator) Check(latest, current model.Schema) (compat.CompatibilityLevel, error) {
	level, err := compat.CheckSchemas(latest, current)
	if err != nil {
		return 0, err
	}
	if !v.strategy.accepts(level) {
		return level, sbeerr.NotCompatible(level.String())
	}
	return level, nil
}
