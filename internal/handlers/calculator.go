package handlers

import (
	"context"
	"net/http"

	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/mortgage"
	"github.com/c0de128/4seasons/internal/pagecache"
	"github.com/c0de128/4seasons/internal/requestinfo"
	"github.com/c0de128/4seasons/internal/seo"
)

// CalculatorPath serves the affordability calculator.
const CalculatorPath = "/calculators/affordability"

// Starting values for the calculator form.
const (
	defaultRate      = 6.5
	defaultTerm      = 30
	defaultInsurance = 2400
	defaultDown      = 40000
	exampleIncome    = 100000
)

// CalculatorDefaults pre-fills the calculator form.
type CalculatorDefaults struct {
	Region         string
	PropertyTaxPct float64
	InterestRate   float64
	TermYears      int
	Terms          []int
	DownPayment    float64
	InsuranceYear  float64

	// A worked example shown under the form.
	ExampleIncome float64
	ExamplePrice  float64
}

func calculatorDefaults(region string) *CalculatorDefaults {
	d := &CalculatorDefaults{
		Region:         region,
		PropertyTaxPct: mortgage.DefaultTaxPct(region),
		InterestRate:   defaultRate,
		TermYears:      defaultTerm,
		Terms:          []int{10, 15, 20, 25, 30},
		DownPayment:    defaultDown,
		InsuranceYear:  defaultInsurance,
		ExampleIncome:  exampleIncome,
	}
	d.ExamplePrice = mortgage.Affordability(mortgage.Input{
		AnnualIncome:   exampleIncome,
		DownPayment:    d.DownPayment,
		InterestRate:   d.InterestRate,
		TermYears:      d.TermYears,
		PropertyTaxPct: d.PropertyTaxPct,
		InsuranceYear:  d.InsuranceYear,
	}).MaxPrice
	return d
}

// calculatorPage is the copy for the calculator.  A content file at the
// same path replaces it.
var calculatorPage = &content.Page{
	Section: content.Pages,
	Slug:    "affordability",
	Path:    CalculatorPath,
	Title:   "How much house can I afford?",
	Summary: "Estimate your maximum home price from income, debts, and today's rates.",
}

func (h *Handler) calculator(w http.ResponseWriter, r *http.Request) {
	p := calculatorPage
	if lp, err := h.library().Page(CalculatorPath); err == nil {
		p = lp
	}
	region := requestinfo.FromContext(r.Context()).Region()
	ctx := context.WithoutCancel(r.Context())

	h.serve(w, r, CalculatorPath+pagecache.VariantSep+region, "calculator", func() (*pagecache.Page, bool, error) {
		meta := p.Metadata(h.seo)
		meta.StructuredData = meta.StructuredData.Append(map[string]any{
			"@context":            seo.SchemaContext,
			"@type":               "WebApplication",
			"name":                p.Title,
			"url":                 content.AbsURL(h.site.BaseURL, CalculatorPath),
			"applicationCategory": "FinanceApplication",
			"offers":              map[string]any{"@type": "Offer", "price": "0", "priceCurrency": "USD"},
		})
		ok := h.override(ctx, CalculatorPath, &meta)
		v := &View{Page: p, Section: p.Section, Calculator: calculatorDefaults(region)}
		return h.render("calculator", http.StatusOK, v, meta, ok)
	})
}
