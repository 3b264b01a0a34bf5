package dice

import "go.uber.org/zap"

// CheckResult is the audit trail of one percent-chance check.
//
// Invariant: Success == (Roll <= Percent).
type CheckResult struct {
	Reason  string
	Percent int
	// Roll is in [1, 100].
	Roll    int
	Success bool
}

// Roller wraps a Source and logger to provide logged chance checks.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each check to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Chance rolls 1d100 and succeeds when the roll is at most percent.
// Percent values outside [0, 100] are clamped.
//
// Postcondition: exactly one value is drawn from the source.
func (r *Roller) Chance(reason string, percent int) CheckResult {
	percent = max(0, min(percent, 100))
	roll := r.src.Intn(100) + 1
	res := CheckResult{Reason: reason, Percent: percent, Roll: roll, Success: roll <= percent}
	r.logger.Debug("chance check",
		zap.String("reason", reason),
		zap.Int("percent", percent),
		zap.Int("roll", roll),
		zap.Bool("success", res.Success),
	)
	return res
}
