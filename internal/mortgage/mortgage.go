// internal/mortgage/mortgage.go
//
// Mortgage affordability and payment maths.
//
// Context
// -------
// The affordability calculator on /calculators/affordability answers "how
// much house can I buy?" with the standard debt-to-income rules:
//
//   - front-end ratio  housing cost ≤ 28 % of gross monthly income,
//   - back-end ratio   housing cost + other debt ≤ 36 % of income.
//
// The lower of the two caps is the maximum monthly PITI.  Taxes,
// insurance, and HOA come off the top, and what remains is the principal
// and interest the buyer can carry.  Inverting the amortisation formula
// gives the loan; adding the down payment gives the price.
//
// Formulas
// --------
//
//	payment = L·r / (1 − (1+r)^−n)      r = annual/12, n = years·12
//	loan    = P·(1 − (1+r)^−n) / r
//
// A zero rate degenerates to payment = L/n.
package mortgage

import (
	"errors"
	"math"
)

const (
	FrontEndRatio = 0.28
	BackEndRatio  = 0.36
)

// ErrInvalidInput is wrapped by validation failures.
var ErrInvalidInput = errors.New("mortgage: invalid input")

// Input feeds Affordability.  Money values are USD, rates are percentages
// (6.5 means 6.5 %).
type Input struct {
	AnnualIncome   float64 `json:"annualIncome"   validate:"gt=0,lte=100000000"`
	MonthlyDebts   float64 `json:"monthlyDebts"   validate:"gte=0"`
	DownPayment    float64 `json:"downPayment"    validate:"gte=0"`
	InterestRate   float64 `json:"interestRate"   validate:"gte=0,lte=30"`
	TermYears      int     `json:"termYears"      validate:"oneof=10 15 20 25 30"`
	PropertyTaxPct float64 `json:"propertyTaxPct" validate:"gte=0,lte=10"` // of price, per year
	InsuranceYear  float64 `json:"insuranceYear"  validate:"gte=0"`
	HOAMonthly     float64 `json:"hoaMonthly"     validate:"gte=0"`
}

// Result is the affordability estimate.  Affordable is false when the
// buyer's debts or fixed costs leave nothing for principal and interest.
type Result struct {
	MaxPrice        float64 `json:"maxPrice"`
	MaxLoan         float64 `json:"maxLoan"`
	MonthlyPayment  float64 `json:"monthlyPayment"` // total PITI + HOA
	PrincipalAndInt float64 `json:"principalAndInterest"`
	MonthlyTax      float64 `json:"monthlyTax"`
	MonthlyIns      float64 `json:"monthlyInsurance"`
	FrontEndDTI     float64 `json:"frontEndDti"`
	BackEndDTI      float64 `json:"backEndDti"`
	LimitedBy       string  `json:"limitedBy"` // "front-end" or "back-end"
	Affordable      bool    `json:"affordable"`
}

// Affordability estimates the maximum purchase price for in.
//
// Property tax scales with the price, so the price solves
//
//	PI(price − down) + price·t/12 = budget − insurance − HOA
//
// which is linear in price once the amortisation factor is known.
func Affordability(in Input) Result {
	income := in.AnnualIncome / 12
	front := income * FrontEndRatio
	back := income*BackEndRatio - in.MonthlyDebts

	res := Result{LimitedBy: "front-end"}
	budget := front
	if back < front {
		budget = back
		res.LimitedBy = "back-end"
	}

	monthlyIns := in.InsuranceYear / 12
	res.MonthlyIns = round2(monthlyIns)
	avail := budget - monthlyIns - in.HOAMonthly
	if avail <= 0 {
		return res
	}

	n := float64(in.TermYears * 12)
	r := in.InterestRate / 100 / 12
	factor := paymentFactor(r, n) // payment per dollar borrowed
	taxRate := in.PropertyTaxPct / 100 / 12

	// avail = factor·(price − down) + taxRate·price
	price := (avail + factor*in.DownPayment) / (factor + taxRate)
	if price < in.DownPayment {
		// The down payment alone exceeds what the budget carries in tax.
		price = in.DownPayment
	}

	res.MaxPrice = round2(price)
	res.MaxLoan = round2(math.Max(price-in.DownPayment, 0))
	res.PrincipalAndInt = round2(res.MaxLoan * factor)
	res.MonthlyTax = round2(price * taxRate)
	res.MonthlyPayment = round2(res.PrincipalAndInt + res.MonthlyTax + res.MonthlyIns + in.HOAMonthly)
	res.FrontEndDTI = round2(res.MonthlyPayment / income * 100)
	res.BackEndDTI = round2((res.MonthlyPayment + in.MonthlyDebts) / income * 100)
	res.Affordable = res.MaxLoan > 0
	return res
}

// Loan feeds Payment.
type Loan struct {
	Principal    float64 `json:"principal"    validate:"gt=0,lte=100000000"`
	InterestRate float64 `json:"interestRate" validate:"gte=0,lte=30"`
	TermYears    int     `json:"termYears"    validate:"gte=1,lte=50"`
}

// Payment returns the monthly principal-and-interest payment.
func Payment(l Loan) float64 {
	n := float64(l.TermYears * 12)
	return round2(l.Principal * paymentFactor(l.InterestRate/100/12, n))
}

// Schedule returns the first months of amortisation: interest and
// principal portions plus the remaining balance.
func Schedule(l Loan, months int) []Installment {
	n := float64(l.TermYears * 12)
	r := l.InterestRate / 100 / 12
	pay := l.Principal * paymentFactor(r, n)
	if months > int(n) {
		months = int(n)
	}

	out := make([]Installment, 0, months)
	bal := l.Principal
	for i := 1; i <= months; i++ {
		interest := bal * r
		princ := pay - interest
		bal -= princ
		if bal < 0 {
			bal = 0
		}
		out = append(out, Installment{
			Month:     i,
			Interest:  round2(interest),
			Principal: round2(princ),
			Balance:   round2(bal),
		})
	}
	return out
}

// Installment is one row of Schedule.
type Installment struct {
	Month     int     `json:"month"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// paymentFactor is the monthly payment per dollar borrowed.
func paymentFactor(r, n float64) float64 {
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return 1 / n
	}
	return r / (1 - math.Pow(1+r, -n))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
