package mcpserver

import (
	"errors"
	"fmt"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/history"
	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/roulette"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	return toolErrorWith(code, message, nil)
}

func toolErrorWith(code, message string, extra map[string]any) *mcp.CallToolResult {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	result := mcp.NewToolResultStructured(
		map[string]any{"error": body},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	var insufficient *ledger.InsufficientFundsError
	var fields *account.FieldError
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.As(err, &insufficient):
		return toolErrorWith("insufficient_funds", err.Error(), map[string]any{
			"attempted": insufficient.Attempted.StringFixed(2),
			"balance":   insufficient.Balance.StringFixed(2),
		})
	case errors.As(err, &fields):
		return toolErrorWith("invalid_request", err.Error(), map[string]any{"fields": fields.Fields})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return toolError("insufficient_funds", err.Error())
	case errors.Is(err, ledger.ErrAmountOutOfRange):
		return toolError("amount_out_of_range", err.Error())
	case errors.Is(err, auth.ErrLockedOut):
		return toolError("locked_out", err.Error())
	case errors.Is(err, ledger.ErrDuplicateAccount):
		return toolError("duplicate_account", err.Error())
	case errors.Is(err, ledger.ErrUnknownAccount):
		return toolError("unknown_account", err.Error())
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return toolError("storage_unavailable", err.Error())
	case errors.Is(err, roulette.ErrInvalidWager):
		return toolError("invalid_wager", err.Error())
	case errors.Is(err, roulette.ErrInvalidChoice):
		return toolError("invalid_choice", err.Error())
	case errors.Is(err, roulette.ErrInvalidVariant):
		return toolError("invalid_variant", err.Error())
	case errors.Is(err, account.ErrInvalidAmount):
		return toolError("invalid_amount", err.Error())
	case errors.Is(err, account.ErrInvalidDirection):
		return toolError("invalid_direction", err.Error())
	case errors.Is(err, history.ErrInvalidFilter):
		return toolError("invalid_filter", err.Error())
	case errors.Is(err, history.ErrInvalidSort):
		return toolError("invalid_sort", err.Error())
	case errors.Is(err, ledger.ErrInvalidCategory):
		return toolError("invalid_category", err.Error())
	case errors.Is(err, account.ErrInvalidRequest),
		errors.Is(err, ledger.ErrInvalidProfile):
		return toolError("invalid_request", err.Error())
	default:
		return toolError("internal_error", err.Error())
	}
}
