package pos

import (
	"errors"

	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTaxRate = errors.New("pos: tax rate must be between 0 and 100")
	ErrNegativeTotal  = errors.New("pos: total must not be negative")
)

var hundred = decimal.NewFromInt(100)

// TaxResult is the output of the tax engine. Subtotal + TaxAmount == Total
// holds exactly, before and after rounding.
type TaxResult struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Rate      decimal.Decimal
	Included  bool
}

// ComputeTax splits or adds tax for a cart total. With included set, the
// total already contains the tax and stays unchanged; otherwise tax is added
// on top. Arithmetic is kept at full precision; call Rounded for display.
func ComputeTax(total, ratePercent decimal.Decimal, included bool) (TaxResult, error) {
	if total.IsNegative() {
		return TaxResult{}, ErrNegativeTotal
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return TaxResult{}, ErrInvalidTaxRate
	}

	res := TaxResult{Rate: ratePercent, Included: included}
	if included {
		res.TaxAmount = total.Mul(ratePercent).Div(hundred.Add(ratePercent))
		res.Subtotal = total.Sub(res.TaxAmount)
		res.Total = total
		return res, nil
	}

	res.TaxAmount = total.Mul(ratePercent).Div(hundred)
	res.Subtotal = total
	res.Total = total.Add(res.TaxAmount)
	return res, nil
}

// Rounded returns the result rounded to cents with the given mode. The
// inclusive case keeps the charged total and derives the subtotal; the
// exclusive case derives the total, so the parts always add up.
func (r TaxResult) Rounded(mode enum.RoundingMode) TaxResult {
	out := TaxResult{Rate: r.Rate, Included: r.Included}
	out.TaxAmount = Round(r.TaxAmount, mode)
	if r.Included {
		out.Total = Round(r.Total, mode)
		out.Subtotal = out.Total.Sub(out.TaxAmount)
		return out
	}
	out.Subtotal = Round(r.Subtotal, mode)
	out.Total = out.Subtotal.Add(out.TaxAmount)
	return out
}

// Round rounds d to two places. The empty mode means half-up.
func Round(d decimal.Decimal, mode enum.RoundingMode) decimal.Decimal {
	switch mode {
	case enum.RoundingHalfEven:
		return d.RoundBank(2)
	case enum.RoundingUp:
		return d.RoundUp(2)
	case enum.RoundingDown:
		return d.RoundDown(2)
	default:
		return d.Round(2)
	}
}
