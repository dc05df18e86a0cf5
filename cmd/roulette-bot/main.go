package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"roulette-ledger/internal/config"
	"roulette-ledger/internal/logging"

	"github.com/rs/zerolog/log"
)

type apiError struct {
	Status int
	Code   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Code)
}

type client struct {
	baseURL string
	http    *http.Client
	token   string
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Code: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type betPayload struct {
	Variant string `json:"variant"`
	Wager   string `json:"wager"`
	Choice  string `json:"choice"`
}

type betResult struct {
	Outcome    int    `json:"outcome"`
	Won        bool   `json:"won"`
	Settlement string `json:"settlement"`
	Balance    string `json:"balance"`
}

func randomBet(rnd *rand.Rand, wager string) betPayload {
	switch rnd.IntN(3) {
	case 0:
		return betPayload{Variant: "single-number", Wager: wager, Choice: strconv.Itoa(1 + rnd.IntN(36))}
	case 1:
		return betPayload{Variant: "odd-even", Wager: wager, Choice: []string{"odd", "even"}[rnd.IntN(2)]}
	default:
		return betPayload{Variant: "high-low", Wager: wager, Choice: []string{"low", "high"}[rnd.IntN(2)]}
	}
}

func run(ctx context.Context, cfg config.BotConfig, rnd *rand.Rand) error {
	c := &client{baseURL: cfg.BaseURL, http: &http.Client{Timeout: 10 * time.Second}}

	err := c.do(ctx, http.MethodPost, "/api/accounts", map[string]any{
		"username":   cfg.Username,
		"password":   cfg.Password,
		"email":      cfg.Username + "@bots.local",
		"forename":   "Robot",
		"surname":    "Player",
		"birth_date": "1970-01-01",
	}, nil)
	var apiErr *apiError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict) {
		return fmt.Errorf("register: %w", err)
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]any{"username": cfg.Username, "password": cfg.Password}, &session); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.token = session.Token
	base := "/api/accounts/" + cfg.Username

	if err := c.do(ctx, http.MethodPost, base+"/credits", map[string]any{"direction": "deposit", "amount": cfg.Deposit}, nil); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	log.Info().Str("username", cfg.Username).Str("amount", cfg.Deposit).Msg("deposited")

	for round := 1; round <= cfg.Rounds; round++ {
		bet := randomBet(rnd, cfg.Wager)
		var res betResult
		err := c.do(ctx, http.MethodPost, base+"/bets", bet, &res)
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
			log.Info().Int("round", round).Msg("out of funds")
			return nil
		}
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		log.Info().
			Int("round", round).
			Str("variant", bet.Variant).
			Str("choice", bet.Choice).
			Int("outcome", res.Outcome).
			Bool("won", res.Won).
			Str("balance", res.Balance).
			Msg("bet")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Pause):
		}
	}
	return nil
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	defer logging.Close()
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	if err := run(ctx, cfg, rnd); err != nil {
		log.Error().Err(err).Msg("bot stopped")
		return
	}
	log.Info().Msg("bot finished")
}
