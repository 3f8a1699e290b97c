// Package analyzer calls the remote dish analysis service.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pario-ai/dishcache/pkg/models"
)

// ErrAnalysisFailed is returned when the service answers with a non-2xx status.
var ErrAnalysisFailed = errors.New("analysis failed")

const analyzePath = "/v1/analyze"

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client posts dish lookups to the analysis service.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a Client. A zero Timeout leaves the resty default in place.
func New(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		c.SetAuthToken(opts.APIKey)
	}
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	return &Client{http: c, log: logger.Named("analyzer")}
}

type analyzeBody struct {
	DishName          string `json:"dish_name"`
	RestaurantName    string `json:"restaurant_name,omitempty"`
	RestaurantAddress string `json:"restaurant_address,omitempty"`
	PlaceID           string `json:"place_id,omitempty"`
}

// Analyze requests an analysis and returns the raw payload unchanged.
func (c *Client) Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error) {
	requestID := uuid.New().String()
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(analyzeBody{
			DishName:          req.DishName,
			RestaurantName:    req.RestaurantName,
			RestaurantAddress: req.RestaurantAddress,
			PlaceID:           req.PlaceID,
		}).
		Post(analyzePath)
	if err != nil {
		return nil, fmt.Errorf("analyze request: %w", err)
	}

	c.log.Debug("analysis response",
		zap.String("request_id", requestID),
		zap.String("dish", req.DishName),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrAnalysisFailed, resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrAnalysisFailed)
	}
	return json.RawMessage(body), nil
}
