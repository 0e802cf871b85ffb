package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/metrics"
	"github.com/c0de128/4seasons/internal/mortgage"
)

const (
	maxBody        = 16 << 10
	scheduleMonths = 12
)

// paymentResponse is the /api/payment body.
type paymentResponse struct {
	Payment  float64                `json:"payment"`
	Schedule []mortgage.Installment `json:"schedule"`
}

func (h *Handler) affordability(w http.ResponseWriter, r *http.Request) {
	var in mortgage.Input
	if !decodeValid(w, r, "affordability", &in) {
		return
	}
	res := mortgage.Affordability(in)
	result := "ok"
	if !res.Affordable {
		result = "unaffordable"
	}
	metrics.CalculatorEstimatesTotal.WithLabelValues("affordability", result).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) payment(w http.ResponseWriter, r *http.Request) {
	var l mortgage.Loan
	if !decodeValid(w, r, "payment", &l) {
		return
	}
	metrics.CalculatorEstimatesTotal.WithLabelValues("payment", "ok").Inc()
	writeJSON(w, http.StatusOK, paymentResponse{
		Payment:  mortgage.Payment(l),
		Schedule: mortgage.Schedule(l, scheduleMonths),
	})
}

// decodeValid reads one JSON object into dst and validates it.  On
// failure it writes a 400 and reports false.
func decodeValid(w http.ResponseWriter, r *http.Request, calc string, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		err = fmt.Errorf("decode request: %w", err)
	} else {
		err = mortgage.Validate(dst)
	}
	if err == nil {
		return true
	}

	metrics.CalculatorEstimatesTotal.WithLabelValues(calc, "invalid").Inc()
	if !errors.Is(err, mortgage.ErrInvalidInput) {
		zap.L().Debug("calculator request rejected", zap.String("calculator", calc), zap.Error(err))
	}
	writeError(w, http.StatusBadRequest, err)
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
