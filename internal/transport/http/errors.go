package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/history"
	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/roulette"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": code})
}

var badRequestErrors = []error{
	roulette.ErrInvalidWager,
	roulette.ErrInvalidChoice,
	roulette.ErrInvalidVariant,
	account.ErrInvalidAmount,
	account.ErrInvalidDirection,
	account.ErrInvalidRequest,
	ledger.ErrInvalidProfile,
	ledger.ErrInvalidCategory,
	history.ErrInvalidFilter,
	history.ErrInvalidSort,
}

// writeServiceError maps domain errors onto status codes. Codes in the body are the
// sentinel texts so clients can switch on them.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *ledger.InsufficientFundsError
	var locked *auth.LockedOutError
	switch {
	case errors.As(err, &insufficient):
		metricInsufficientFunds.Add(1)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     ledger.ErrInsufficientFunds.Error(),
			"attempted": insufficient.Attempted.StringFixed(2),
			"balance":   insufficient.Balance.StringFixed(2),
		})
		return
	case errors.Is(err, ledger.ErrInsufficientFunds):
		metricInsufficientFunds.Add(1)
		WriteHTTPError(w, http.StatusUnprocessableEntity, ledger.ErrInsufficientFunds.Error())
		return
	case errors.Is(err, ledger.ErrAmountOutOfRange):
		WriteHTTPError(w, http.StatusUnprocessableEntity, ledger.ErrAmountOutOfRange.Error())
		return
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(int(locked.RetryAfter.Round(time.Second)/time.Second)))
		WriteHTTPError(w, http.StatusTooManyRequests, auth.ErrLockedOut.Error())
		return
	case errors.Is(err, ledger.ErrDuplicateAccount):
		WriteHTTPError(w, http.StatusConflict, ledger.ErrDuplicateAccount.Error())
		return
	case errors.Is(err, ledger.ErrUnknownAccount):
		WriteHTTPError(w, http.StatusNotFound, ledger.ErrUnknownAccount.Error())
		return
	case errors.Is(err, ledger.ErrStorageUnavailable):
		metricStorageUnavailable.Add(1)
		WriteHTTPError(w, http.StatusServiceUnavailable, ledger.ErrStorageUnavailable.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			WriteHTTPError(w, http.StatusBadRequest, target.Error())
			return
		}
	}
	WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
}
