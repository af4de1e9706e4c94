package models

// RiskTier is the coarse risk classification of a project.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// Risk thresholds.
const (
	MinSafeLiquidity = 5000.0
	MinSafeAgeHours  = 1.0
	MinSafeVolume24h = 1000.0

	// UnknownAgeHours is passed to EvaluateRisk when the creation time is unknown.
	UnknownAgeHours = 999.0
)

// Risk reasons.
const (
	ReasonLowLiquidity = "Very low liquidity"
	ReasonBrandNew     = "Brand new pair"
	ReasonLowVolume    = "Low 24h volume"
)

// RiskAssessment is the outcome of EvaluateRisk.
type RiskAssessment struct {
	Tier    RiskTier
	Reasons []string
}

// EvaluateRisk flags each threshold independently and derives the tier from the
// number of flags.
func EvaluateRisk(liquidity, volume24h, ageHours float64) RiskAssessment {
	reasons := []string{}
	if liquidity < MinSafeLiquidity {
		reasons = append(reasons, ReasonLowLiquidity)
	}
	if ageHours < MinSafeAgeHours {
		reasons = append(reasons, ReasonBrandNew)
	}
	if volume24h < MinSafeVolume24h {
		reasons = append(reasons, ReasonLowVolume)
	}
	return RiskAssessment{Tier: TierFor(len(reasons)), Reasons: reasons}
}

// TierFor maps a flag count to a tier.
func TierFor(flags int) RiskTier {
	switch {
	case flags >= 2:
		return RiskHigh
	case flags == 1:
		return RiskMedium
	default:
		return RiskLow
	}
}
