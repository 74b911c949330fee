package campaigns

import (
	"github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/fundlift/fundlift-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// ratioPrecision is the number of decimal places kept when dividing
// raised by goal. Enough for display; avoids float drift on the way.
const ratioPrecision = 8

// Progress is a derived snapshot of how far a campaign has come. Ratio
// and Percent are intentionally unclamped so over-funded campaigns
// report values above 1.0 / 100.
type Progress struct {
	Raised  money.Money `json:"raised"`
	Goal    money.Money `json:"goal"`
	Ratio   float64     `json:"ratio"`
	Percent float64     `json:"percent"`
}

// ComputeProgress derives funding progress from a raised total and a goal.
// The goal must be strictly positive and both values must share a currency.
func ComputeProgress(raised, goal money.Money) (Progress, error) {
	if !goal.IsPositive() {
		return Progress{}, errors.New(errors.CodeInvalidGoal, "campaign goal must be positive")
	}
	if !raised.SameCurrency(goal) {
		return Progress{}, errors.New(errors.CodeCurrencyMismatch, "raised and goal currencies differ")
	}

	ratio := decimal.NewFromInt(raised.AmountMinorUnits).
		DivRound(decimal.NewFromInt(goal.AmountMinorUnits), ratioPrecision)

	return Progress{
		Raised:  raised,
		Goal:    goal,
		Ratio:   ratio.InexactFloat64(),
		Percent: ratio.Mul(decimal.NewFromInt(100)).InexactFloat64(),
	}, nil
}

// GoalReached reports whether the raised total meets or exceeds the goal.
func (p Progress) GoalReached() bool {
	return p.Raised.AmountMinorUnits >= p.Goal.AmountMinorUnits
}

// ClampedPercent caps the percentage at 100 for progress-bar rendering.
func (p Progress) ClampedPercent() float64 {
	if p.Percent > 100 {
		return 100
	}
	return p.Percent
}

// Remaining returns how much is still needed to reach the goal, floored
// at zero once the campaign is over-funded.
func (p Progress) Remaining() money.Money {
	if p.GoalReached() {
		return money.Zero(p.Goal.Currency)
	}
	remaining, err := p.Goal.Sub(p.Raised)
	if err != nil {
		return money.Zero(p.Goal.Currency)
	}
	return remaining
}
