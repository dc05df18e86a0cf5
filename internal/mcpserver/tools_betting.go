package mcpserver

import (
	"context"

	"roulette-ledger/internal/app/account"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBettingTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_bet",
			mcp.WithDescription("Spin the wheel once and settle a bet against the balance"),
			mcp.WithString("username", mcp.Required(), mcp.Description("Username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password")),
			mcp.WithString("variant", mcp.Required(), mcp.Description("single-number|odd-even|high-low")),
			mcp.WithString("wager", mcp.Required(), mcp.Description("Positive amount, at most two decimals")),
			mcp.WithString("choice", mcp.Required(), mcp.Description("1..36 for single-number, odd|even, or low|high")),
		),
		s.handlePlaceBet,
	)
}

func (s *Server) handlePlaceBet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	if errResp := s.authPlayer(ctx, username, request.GetString("password", "")); errResp != nil {
		return errResp, nil
	}
	resp, err := s.svc.PlaceBet(ctx, account.PlaceBetInput{
		Username: username,
		Variant:  request.GetString("variant", ""),
		Wager:    argText(request, "wager"),
		Choice:   argText(request, "choice"),
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}
