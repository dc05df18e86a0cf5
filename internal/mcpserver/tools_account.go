package mcpserver

import (
	"context"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/history"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAccountTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"register_account",
			mcp.WithDescription("Create a player account"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Unique username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password")),
			mcp.WithString("email", mcp.Required(), mcp.Description("Email address")),
			mcp.WithString("forename", mcp.Required(), mcp.Description("Given name, letters only, at most 10")),
			mcp.WithString("surname", mcp.Required(), mcp.Description("Family name, letters only, at most 10")),
			mcp.WithString("birth_date", mcp.Required(), mcp.Description("YYYY-MM-DD, at least 18 years ago")),
		),
		s.handleRegisterAccount,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_balance",
			mcp.WithDescription("Read the current balance"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password")),
		),
		s.handleGetBalance,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"adjust_credit",
			mcp.WithDescription("Deposit or withdraw credit"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password")),
			mcp.WithString("direction", mcp.Required(), mcp.Description("deposit|withdraw")),
			mcp.WithString("amount", mcp.Required(), mcp.Description("Positive amount, at most two decimals")),
		),
		s.handleAdjustCredit,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_history",
			mcp.WithDescription("List transactions, optionally filtered and sorted by amount"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password")),
			mcp.WithString("filter", mcp.Description("all|bets|manual")),
			mcp.WithString("sort", mcp.Description("asc|desc; omit for insertion order")),
		),
		s.handleGetHistory,
	)
}

func (s *Server) handleRegisterAccount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := s.validate.Registration(account.Registration{
		Username:  request.GetString("username", ""),
		Password:  request.GetString("password", ""),
		Email:     request.GetString("email", ""),
		Forename:  request.GetString("forename", ""),
		Surname:   request.GetString("surname", ""),
		BirthDate: request.GetString("birth_date", ""),
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	resp, err := s.svc.Register(ctx, in)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"account": resp}), nil
}

func (s *Server) handleGetBalance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	if errResp := s.authPlayer(ctx, username, request.GetString("password", "")); errResp != nil {
		return errResp, nil
	}
	bal, err := s.svc.Balance(ctx, username)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"username": username, "balance": bal.StringFixed(2)}), nil
}

func (s *Server) handleAdjustCredit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	if errResp := s.authPlayer(ctx, username, request.GetString("password", "")); errResp != nil {
		return errResp, nil
	}
	direction, err := account.ParseDirection(request.GetString("direction", ""))
	if err != nil {
		return mapDomainError(err), nil
	}
	resp, err := s.svc.AdjustCredit(ctx, account.AdjustCreditInput{
		Username:  username,
		Amount:    argText(request, "amount"),
		Direction: direction,
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	if errResp := s.authPlayer(ctx, username, request.GetString("password", "")); errResp != nil {
		return errResp, nil
	}
	filter, err := history.ParsePredicate(request.GetString("filter", ""))
	if err != nil {
		return mapDomainError(err), nil
	}
	dir, err := history.ParseDirection(request.GetString("sort", ""))
	if err != nil {
		return mapDomainError(err), nil
	}
	resp, err := s.svc.GetHistory(ctx, username, account.HistoryQuery{Filter: filter, Sort: dir})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}
