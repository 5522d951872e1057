// Package mortgage computes fixed-rate loan payments.
package mortgage

import (
	"fmt"
	"math"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
)

// Loan describes a fully amortizing fixed-rate loan.
type Loan struct {
	Principal         float64
	AnnualRatePercent float64
	Years             float64
}

// Summary is the cost of a loan over its full term.
type Summary struct {
	MonthlyPayment float64
	Payments       int
	TotalPaid      float64
	TotalInterest  float64
}

// Validate rejects non-finite values, a non-positive principal or term and
// a negative rate.
func (l Loan) Validate() error {
	for name, v := range map[string]float64{"loan": l.Principal, "rate": l.AnnualRatePercent, "years": l.Years} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return estateErrors.InvalidInput(fmt.Sprintf("%s must be a finite number", name))
		}
	}
	if l.Principal <= 0 {
		return estateErrors.InvalidInput("loan must be greater than zero")
	}
	if l.Years <= 0 {
		return estateErrors.InvalidInput("years must be greater than zero")
	}
	if l.AnnualRatePercent < 0 {
		return estateErrors.InvalidInput("rate must not be negative")
	}
	return nil
}

// Payments is the number of monthly installments, n = years*12.
func (l Loan) Payments() float64 {
	return l.Years * 12
}

// MonthlyPayment applies P = L*r*(1+r)^n / ((1+r)^n - 1) with r the monthly
// rate and n the number of payments. A zero rate gives L/n.
func MonthlyPayment(loan, annualRatePercent, years float64) (float64, error) {
	return Loan{Principal: loan, AnnualRatePercent: annualRatePercent, Years: years}.monthlyPayment()
}

// monthlyPayment evaluates the formula as L*r / (1 - (1+r)^-n) through
// Log1p and Expm1, which stays accurate for tiny r and tends to L*r when
// (1+r)^n overflows. The payment never drops below L/n.
func (l Loan) monthlyPayment() (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}

	n := l.Payments()
	r := l.AnnualRatePercent / 100 / 12
	floor := l.Principal / n

	payment := floor
	if r > 0 {
		if d := -math.Expm1(-n * math.Log1p(r)); d > 0 {
			payment = math.Max(l.Principal*r/d, floor)
		}
	}

	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, estateErrors.InvalidInput("loan terms produce a payment that is out of range")
	}
	return payment, nil
}

// Summarize returns the payment and lifetime totals of a loan.
func Summarize(l Loan) (Summary, error) {
	payment, err := l.monthlyPayment()
	if err != nil {
		return Summary{}, err
	}

	n := l.Payments()
	total := payment * n
	if math.IsInf(total, 0) {
		return Summary{}, estateErrors.InvalidInput("loan terms produce totals that are out of range")
	}
	return Summary{
		MonthlyPayment: payment,
		Payments:       int(math.Round(n)),
		TotalPaid:      total,
		TotalInterest:  total - l.Principal,
	}, nil
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
