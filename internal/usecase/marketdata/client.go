package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	marketdatav1 "github.com/muhammadchandra19/orderbook/internal/domain/marketdata/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
)

const (
	// DefaultBaseURL is the venue's paper-trading host.
	DefaultBaseURL = "https://paper-api.alpaca.markets"
	// DefaultDataBaseURL is the venue's market data host.
	DefaultDataBaseURL = "https://data.alpaca.markets"
)

// Config carries the venue endpoints and credentials. Trading endpoints hit
// BaseURL, quote data hits DataBaseURL.
type Config struct {
	BaseURL        string        `env:"BASE_URL" envDefault:"https://paper-api.alpaca.markets"`
	DataBaseURL    string        `env:"DATA_BASE_URL" envDefault:"https://data.alpaca.markets"`
	KeyID          string        `env:"KEY_ID"`
	SecretKey      string        `env:"SECRET_KEY"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxElapsedTime time.Duration `env:"RETRY_MAX_ELAPSED" envDefault:"15s"`
}

// Client talks to the brokerage REST API. Reads retry on transient failures,
// order mutations are single-shot so a flaky network never double-submits.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logger.Logger
}

var _ marketdatav1.Client = (*Client)(nil)

// NewClient builds a REST client. Credentials are checked up front so a
// misconfigured process fails before its first request.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.KeyID == "" || cfg.SecretKey == "" {
		return nil, errors.NewErrorDetails("missing API credentials", string(errors.MarketDataConfigError), "credentials")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DataBaseURL == "" {
		cfg.DataBaseURL = DefaultDataBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = 15 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}, nil
}

// do performs one request and decodes the answer into out when it is
// non-nil. The returned status is zero when the request never got an answer.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, errors.NewTracer(string(errors.MarketDataRequestError)).Wrap(err)
	}
	req.Header.Set("APCA-API-KEY-ID", c.cfg.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.NewTracer(string(errors.MarketDataRequestError)).Wrap(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.NewTracer(string(errors.MarketDataRequestError)).Wrap(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "venue answered non-success status",
			logger.Field{Key: "method", Value: method},
			logger.Field{Key: "url", Value: url},
			logger.Field{Key: "status", Value: resp.StatusCode},
			logger.Field{Key: "body", Value: string(payload)},
		)
		message := fmt.Sprintf("%s %s answered %d: %s", method, url, resp.StatusCode, string(payload))
		return resp.StatusCode, errors.NewErrorDetails(message, string(errors.MarketDataStatusError), fmt.Sprintf("%d", resp.StatusCode))
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return resp.StatusCode, errors.NewErrorDetails(err.Error(), string(errors.MarketDataDecodeError), url)
	}

	return resp.StatusCode, nil
}

// get performs a GET with exponential backoff. Transport failures and 5xx
// answers retry until MaxElapsedTime; 4xx answers are permanent.
func (c *Client) get(ctx context.Context, url string, out any) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.MaxElapsedTime

	return backoff.Retry(func() error {
		status, err := c.do(ctx, http.MethodGet, url, nil, out)
		if err != nil && status >= 400 && status < 500 {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// TestConnection verifies the credentials with an account probe.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.GetAccount(ctx)
	return err
}

// GetAccount returns the trading account.
func (c *Client) GetAccount(ctx context.Context) (*marketdatav1.Account, error) {
	var account marketdatav1.Account
	if err := c.get(ctx, c.cfg.BaseURL+"/v2/account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetLatestQuote returns the latest top-of-book quote for the symbol. The
// wire shape nests the quote under "quote" next to the symbol.
func (c *Client) GetLatestQuote(ctx context.Context, symbol string) (*marketdatav1.Quote, error) {
	var envelope struct {
		Symbol string             `json:"symbol"`
		Quote  marketdatav1.Quote `json:"quote"`
	}

	url := fmt.Sprintf("%s/v2/stocks/%s/quotes/latest", c.cfg.DataBaseURL, symbol)
	if err := c.get(ctx, url, &envelope); err != nil {
		return nil, err
	}

	quote := envelope.Quote
	quote.Symbol = envelope.Symbol
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	return &quote, nil
}

// GetClock returns the venue's market clock.
func (c *Client) GetClock(ctx context.Context) (*marketdatav1.Clock, error) {
	var clock marketdatav1.Clock
	if err := c.get(ctx, c.cfg.BaseURL+"/v2/clock", &clock); err != nil {
		return nil, err
	}
	return &clock, nil
}

// GetPositions returns the account's open positions.
func (c *Client) GetPositions(ctx context.Context) ([]marketdatav1.Position, error) {
	var positions []marketdatav1.Position
	if err := c.get(ctx, c.cfg.BaseURL+"/v2/positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// PlaceOrder submits an order. Submissions are never retried.
func (c *Client) PlaceOrder(ctx context.Context, request marketdatav1.OrderRequest) (*marketdatav1.PlacedOrder, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.NewTracer(string(errors.MarketDataRequestError)).Wrap(err)
	}

	var placed marketdatav1.PlacedOrder
	if _, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/orders", body, &placed); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "order placed",
		logger.Field{Key: "symbol", Value: placed.Symbol},
		logger.Field{Key: "side", Value: placed.Side},
		logger.Field{Key: "qty", Value: placed.Qty},
		logger.Field{Key: "id", Value: placed.ID},
	)
	return &placed, nil
}

// CancelOrder cancels a working order by venue id. Cancels are never retried.
func (c *Client) CancelOrder(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.cfg.BaseURL+"/v2/orders/"+id, nil, nil)
	return err
}

// GetOpenOrders returns the account's working orders.
func (c *Client) GetOpenOrders(ctx context.Context) ([]marketdatav1.PlacedOrder, error) {
	var orders []marketdatav1.PlacedOrder
	if err := c.get(ctx, c.cfg.BaseURL+"/v2/orders?status=open", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
