package model

import "github.com/shopspring/decimal"

// TradePair is a reconstructed open-to-close leg of an investment position:
// one buy matched with the sell or mark that closed it. Pairs are derived on
// demand and never persisted.
type TradePair struct {
	Buy  ValuationRecord
	Sell ValuationRecord
}

// ReturnRate is the leg's percentage return, 0 when the buy amount is zero.
func (p TradePair) ReturnRate() float64 {
	if p.Buy.EvaluatedAmount.IsZero() {
		return 0
	}
	rate := p.Sell.EvaluatedAmount.Sub(p.Buy.EvaluatedAmount).
		Div(p.Buy.EvaluatedAmount).
		Mul(decimal.NewFromInt(100))
	return rate.InexactFloat64()
}

// ProfitAmount is the leg's absolute gain or loss.
func (p TradePair) ProfitAmount() decimal.Decimal {
	return p.Sell.EvaluatedAmount.Sub(p.Buy.EvaluatedAmount)
}
