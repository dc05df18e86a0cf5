package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"roulette-ledger/internal/app/account"
	"roulette-ledger/internal/auth"
	"roulette-ledger/internal/ledger"
	"roulette-ledger/internal/roulette"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const rulesURI = "roulette://rules"

type Server struct {
	svc      *account.Service
	guard    auth.Guard
	validate *account.Validator

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(svc *account.Service, guard auth.Guard) *Server {
	mcpSrv := server.NewMCPServer(
		"roulette-ledger",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		svc:        svc,
		guard:      guard,
		validate:   account.NewValidator(time.Now),
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerAccountTools()
	s.registerBettingTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

type variantRule struct {
	Variant    string `json:"variant"`
	Choices    string `json:"choices"`
	Multiplier int64  `json:"multiplier"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			rulesURI,
			"roulette_rules",
			mcp.WithResourceDescription("Bet variants, accepted choices and payout multipliers"),
			mcp.WithMIMEType("application/json"),
		),
		func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			payload, err := json.Marshal(map[string]any{
				"outcomes": map[string]int{"min": roulette.MinOutcome, "max": roulette.MaxOutcome},
				"variants": []variantRule{
					{Variant: string(roulette.SingleNumber), Choices: "1..36", Multiplier: roulette.SingleNumber.Multiplier()},
					{Variant: string(roulette.OddEven), Choices: "odd|even", Multiplier: roulette.OddEven.Multiplier()},
					{Variant: string(roulette.HighLow), Choices: "low|high", Multiplier: roulette.HighLow.Multiplier()},
				},
			})
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: rulesURI, MIMEType: "application/json", Text: string(payload)},
			}, nil
		},
	)
}

// authPlayer checks the password for username and applies the same lockout as the HTTP
// login endpoint.
func (s *Server) authPlayer(ctx context.Context, username, password string) *mcp.CallToolResult {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return toolError("invalid_request", "username and password are required")
	}
	if err := s.guard.Check(ctx, username); err != nil {
		return mapDomainError(err)
	}
	ok, err := s.svc.VerifyCredential(ctx, username, password)
	if err != nil && !errors.Is(err, ledger.ErrUnknownAccount) {
		return mapDomainError(err)
	}
	if !ok {
		if err := s.guard.Fail(ctx, username); err != nil {
			return mapDomainError(err)
		}
		return toolError("unauthorized", "invalid username or password")
	}
	_ = s.guard.Reset(ctx, username)
	return nil
}
