package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/history"
	"roulette-ledger/internal/ledger"

	"github.com/rs/zerolog/log"
)

type AccountHandlers struct {
	svc      *account.Service
	tokens   *auth.Tokens
	guard    auth.Guard
	validate *account.Validator
}

func NewAccountHandlers(svc *account.Service, tokens *auth.Tokens, guard auth.Guard) *AccountHandlers {
	return &AccountHandlers{
		svc:      svc,
		tokens:   tokens,
		guard:    guard,
		validate: account.NewValidator(time.Now),
	}
}

func (h *AccountHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	if err := h.validate.Check(dst); err != nil {
		var fe *account.FieldError
		if !errors.As(err, &fe) {
			WriteHTTPError(w, http.StatusBadRequest, account.ErrInvalidRequest.Error())
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  account.ErrInvalidRequest.Error(),
			"fields": fe.Fields,
		})
		return false
	}
	return true
}

func (h *AccountHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body account.Registration
		if !h.decode(w, r, &body) {
			return
		}
		resp, err := h.svc.Register(r.Context(), body.Input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metricRegistrations.Add(1)
		writeJSON(w, http.StatusCreated, resp)
	}
}

// Login exchanges a username and password for a bearer token. Unknown usernames and
// wrong passwords look the same to the caller and both count towards the lockout.
func (h *AccountHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if !h.decode(w, r, &body) {
			return
		}
		ctx := r.Context()
		if err := h.guard.Check(ctx, body.Username); err != nil {
			if errors.Is(err, auth.ErrLockedOut) {
				metricLoginLockouts.Add(1)
			}
			writeServiceError(w, err)
			return
		}
		ok, err := h.svc.VerifyCredential(ctx, body.Username, body.Password)
		if err != nil && !errors.Is(err, ledger.ErrUnknownAccount) {
			writeServiceError(w, err)
			return
		}
		if !ok {
			metricLoginFailures.Add(1)
			if err := h.guard.Fail(ctx, body.Username); err != nil {
				if errors.Is(err, auth.ErrLockedOut) {
					metricLoginLockouts.Add(1)
					log.Warn().Str("username", body.Username).Msg("login locked out")
				}
				writeServiceError(w, err)
				return
			}
			WriteHTTPError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		if err := h.guard.Reset(ctx, body.Username); err != nil {
			log.Error().Err(err).Str("username", body.Username).Msg("reset login attempts failed")
		}
		token, expires, err := h.tokens.Issue(body.Username)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token":      token,
			"token_type": "Bearer",
			"expires_at": expires,
			"username":   body.Username,
		})
	}
}

// authenticated returns the username AccountAuthMiddleware admitted, or writes 401 when
// the handler was reached without it.
func authenticated(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := SubjectFromContext(r.Context())
	if !ok || username == "" {
		WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return username, true
}

func (h *AccountHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := authenticated(w, r)
		if !ok {
			return
		}
		resp, err := h.svc.Account(r.Context(), username)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) PlaceBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := authenticated(w, r)
		if !ok {
			return
		}
		var body betRequest
		if !h.decode(w, r, &body) {
			return
		}
		resp, err := h.svc.PlaceBet(r.Context(), account.PlaceBetInput{
			Username: username,
			Variant:  body.Variant,
			Wager:    body.Wager.String(),
			Choice:   string(body.Choice),
		})
		if err != nil {
			metricBetErrors.Add(1)
			writeServiceError(w, err)
			return
		}
		metricBetsPlaced.Add(1)
		if resp.Won {
			metricBetsWon.Add(1)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) AdjustCredit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := authenticated(w, r)
		if !ok {
			return
		}
		var body creditRequest
		if !h.decode(w, r, &body) {
			return
		}
		direction, err := account.ParseDirection(body.Direction)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp, err := h.svc.AdjustCredit(r.Context(), account.AdjustCreditInput{
			Username:  username,
			Amount:    body.Amount.String(),
			Direction: direction,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metricCreditAdjustments.Add(1)
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := authenticated(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		filter, err := history.ParsePredicate(q.Get("filter"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		dir, err := history.ParseDirection(q.Get("sort"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metricHistoryQueries.Add(1)
		resp, err := h.svc.GetHistory(r.Context(), username, account.HistoryQuery{Filter: filter, Sort: dir})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HealthHandler(st ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}
