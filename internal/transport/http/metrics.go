package httptransport

import "expvar"

var (
	metricBetsPlaced         = expvar.NewInt("bets_placed_total")
	metricBetsWon            = expvar.NewInt("bets_won_total")
	metricBetErrors          = expvar.NewInt("bet_errors_total")
	metricInsufficientFunds  = expvar.NewInt("insufficient_funds_total")
	metricCreditAdjustments  = expvar.NewInt("credit_adjustments_total")
	metricRegistrations      = expvar.NewInt("registrations_total")
	metricLoginFailures      = expvar.NewInt("login_failures_total")
	metricLoginLockouts      = expvar.NewInt("login_lockouts_total")
	metricHistoryQueries     = expvar.NewInt("history_queries_total")
	metricStorageUnavailable = expvar.NewInt("storage_unavailable_total")
)
