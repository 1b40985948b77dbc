package fees

import "math"

// DefaultFeePercent is the platform transaction fee applied to investments
// when no per-call or admin override is given.
const DefaultFeePercent = 2.5

// CalculateFee returns the platform's cut of a gross amount in minor
// currency units, rounded half away from zero. Negative amounts are not
// rejected here; input validation is the caller's job.
func CalculateFee(amountCents int64, feePercent float64) int64 {
	return int64(math.Round(float64(amountCents) * feePercent / 100))
}

// NetAmount returns the amount net of the platform fee. By construction
// CalculateFee + NetAmount always equals the gross amount; rounding shifts
// at most one minor unit between the two.
func NetAmount(amountCents int64, feePercent float64) int64 {
	return amountCents - CalculateFee(amountCents, feePercent)
}
