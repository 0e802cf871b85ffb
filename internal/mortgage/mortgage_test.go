package mortgage

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment(t *testing.T) {
	// 300k at 6 % over 30 years is the textbook 1798.65.
	assert.Equal(t, 1798.65, Payment(Loan{Principal: 300000, InterestRate: 6, TermYears: 30}))
	assert.Equal(t, 1000.0, Payment(Loan{Principal: 360000, InterestRate: 0, TermYears: 30}))
}

func TestAffordability_FrontEndLimited(t *testing.T) {
	in := Input{
		AnnualIncome: 120000,
		DownPayment:  60000,
		InterestRate: 6,
		TermYears:    30,
	}
	res := Affordability(in)
	require.True(t, res.Affordable)
	assert.Equal(t, "front-end", res.LimitedBy)

	// 28 % of 10k is 2800 of P&I with no tax or insurance.
	assert.InDelta(t, 2800, res.PrincipalAndInt, 0.02)
	assert.InDelta(t, 28, res.FrontEndDTI, 0.01)
	assert.InDelta(t, res.MaxLoan+60000, res.MaxPrice, 0.01)
	assert.InDelta(t, 2800, Payment(Loan{Principal: res.MaxLoan, InterestRate: 6, TermYears: 30}), 0.02)
}

func TestAffordability_BackEndLimitedWithCosts(t *testing.T) {
	in := Input{
		AnnualIncome:   96000,
		MonthlyDebts:   1200,
		DownPayment:    40000,
		InterestRate:   6.5,
		TermYears:      30,
		PropertyTaxPct: 2.1,
		InsuranceYear:  2400,
		HOAMonthly:     50,
	}
	res := Affordability(in)
	require.True(t, res.Affordable)
	assert.Equal(t, "back-end", res.LimitedBy)
	assert.InDelta(t, 36, res.BackEndDTI, 0.05)
	assert.InDelta(t, res.MaxPrice*0.021/12, res.MonthlyTax, 0.01)
	assert.Equal(t, 200.0, res.MonthlyIns)
	assert.InDelta(t,
		res.PrincipalAndInt+res.MonthlyTax+res.MonthlyIns+50,
		res.MonthlyPayment, 0.01)
}

func TestAffordability_DebtsTooHigh(t *testing.T) {
	res := Affordability(Input{AnnualIncome: 36000, MonthlyDebts: 1100, InterestRate: 7, TermYears: 30})
	assert.False(t, res.Affordable)
	assert.Zero(t, res.MaxPrice)
}

func TestAffordability_UnaffordableStillRoundsInsurance(t *testing.T) {
	res := Affordability(Input{
		AnnualIncome: 36000, MonthlyDebts: 1100, InsuranceYear: 1000, InterestRate: 7, TermYears: 30,
	})
	assert.False(t, res.Affordable)
	assert.Equal(t, 83.33, res.MonthlyIns)
}

func TestSchedule(t *testing.T) {
	rows := Schedule(Loan{Principal: 100000, InterestRate: 6, TermYears: 1}, 24)
	require.Len(t, rows, 12)
	assert.Equal(t, 500.0, rows[0].Interest)
	assert.Zero(t, rows[11].Balance)
	for _, r := range rows {
		assert.False(t, math.IsNaN(r.Principal))
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Input{AnnualIncome: 1, TermYears: 30}))

	err := Validate(Input{AnnualIncome: 0, InterestRate: 45, TermYears: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "annualIncome (gt)")
	assert.Contains(t, err.Error(), "interestRate (lte)")
	assert.Contains(t, err.Error(), "termYears (oneof)")

	assert.ErrorIs(t, Validate(Loan{Principal: -1, TermYears: 30}), ErrInvalidInput)
}

func TestValidate_UsesJSONKeys(t *testing.T) {
	err := Validate(Input{AnnualIncome: 1, TermYears: 30, HOAMonthly: -5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hoaMonthly (gte)")
}

func TestDefaultTaxPct(t *testing.T) {
	assert.Equal(t, 1.60, DefaultTaxPct("TX"))
	assert.Equal(t, NationalTaxPct, DefaultTaxPct(""))
	assert.Equal(t, NationalTaxPct, DefaultTaxPct("ZZ"))
}
