package mortgage

import (
	"errors"
	"math"
	"testing"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		loan  float64
		rate  float64
		years float64
		want  float64
	}{
		{"seven percent over 25 years", 500000, 7, 25, 3533.90},
		{"zero rate divides evenly", 300000, 0, 30, 833.33},
		{"six percent over 30 years", 200000, 6, 30, 1199.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyPayment(tt.loan, tt.rate, tt.years)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Round2(got))
		})
	}
}

func TestMonthlyPayment_ZeroRateIsLoanOverPayments(t *testing.T) {
	got, err := MonthlyPayment(120000, 0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestMonthlyPayment_MonotoneInRate(t *testing.T) {
	prev := 0.0
	for _, rate := range []float64{0, 0.5, 1, 3, 5, 7, 12} {
		got, err := MonthlyPayment(400000, rate, 30)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "rate %v", rate)
		prev = got
	}
}

func TestMonthlyPayment_NumericEdges(t *testing.T) {
	tests := []struct {
		name              string
		loan, rate, years float64
	}{
		{"rate too small to change one plus r", 300000, 1e-15, 30},
		{"rate near precision limit", 300000, 1e-12, 30},
		{"tiny rate short term", 1000, 1e-300, 1},
		{"growth overflows", 300000, 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyPayment(tt.loan, tt.rate, tt.years)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "payment %v", got)
			assert.GreaterOrEqual(t, got, tt.loan/(tt.years*12))
		})
	}
}

func TestMonthlyPayment_OverflowGrowthTendsToInterestOnly(t *testing.T) {
	got, err := MonthlyPayment(300000, 1000, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 300000*10.0/12, got, 1e-6)
}

func TestMonthlyPayment_MonotoneAcrossTinyRates(t *testing.T) {
	prev := 0.0
	for _, rate := range []float64{0, 1e-15, 1e-12, 1e-9, 1e-6, 0.01} {
		got, err := MonthlyPayment(300000, rate, 30)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "rate %v", rate)
		prev = got
	}
}

func TestSummarize_RejectsOutOfRangeResult(t *testing.T) {
	_, err := Summarize(Loan{Principal: math.MaxFloat64, AnnualRatePercent: 1000, Years: 30})
	require.Error(t, err)
	assert.True(t, errors.Is(err, estateErrors.ErrInvalidInput))
}

func TestMonthlyPayment_MonotoneInLoan(t *testing.T) {
	prev := 0.0
	for _, loan := range []float64{1000, 50000, 250000, 1e6} {
		got, err := MonthlyPayment(loan, 6.5, 30)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "loan %v", loan)
		prev = got
	}
}

func TestMonthlyPayment_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name              string
		loan, rate, years float64
	}{
		{"zero loan", 0, 5, 30},
		{"negative loan", -1, 5, 30},
		{"zero years", 1000, 5, 0},
		{"negative rate", 1000, -1, 30},
		{"nan rate", 1000, math.NaN(), 30},
		{"infinite loan", math.Inf(1), 5, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyPayment(tt.loan, tt.rate, tt.years)
			require.Error(t, err)
			assert.True(t, errors.Is(err, estateErrors.ErrInvalidInput))
		})
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(Loan{Principal: 300000, AnnualRatePercent: 0, Years: 30})
	require.NoError(t, err)

	assert.Equal(t, 360, s.Payments)
	assert.InDelta(t, 300000, s.TotalPaid, 1e-6)
	assert.InDelta(t, 0, s.TotalInterest, 1e-6)

	s, err = Summarize(Loan{Principal: 500000, AnnualRatePercent: 7, Years: 25})
	require.NoError(t, err)
	assert.Equal(t, 300, s.Payments)
	assert.Greater(t, s.TotalInterest, 0.0)
	assert.InDelta(t, s.MonthlyPayment*300, s.TotalPaid, 1e-6)
}
