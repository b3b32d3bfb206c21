package convert

import "github.com/seitarof/gometa/pkg/variant"

// Plan describes how one value is passed as one parameter.
type Plan struct {
	Rule     string
	Strategy Strategy
	Apply    func(variant.Variant) (variant.Variant, error)
}

// Convertible reports whether the plan can be applied.
func (p Plan) Convertible() bool {
	return p.Strategy != StrategySkip && p.Apply != nil
}

// Strategy identifies conversion behavior.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategyNumericCast
	StrategyStringConvert
	StrategyPointerPass
	StrategyDerivedToBase
	StrategyNullPointer
	StrategySkip
)

var strategyNames = [...]string{
	StrategyExact:         "exact",
	StrategyNumericCast:   "numeric-cast",
	StrategyStringConvert: "string-convert",
	StrategyPointerPass:   "pointer-pass",
	StrategyDerivedToBase: "derived-to-base",
	StrategyNullPointer:   "null-pointer",
	StrategySkip:          "skip",
}

func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

func newPlan(strategy Strategy, apply func(variant.Variant) (variant.Variant, error)) Plan {
	return Plan{Strategy: strategy, Apply: apply}
}

func identity(v variant.Variant) (variant.Variant, error) {
	return v, nil
}
