package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agenthands/annex/internal/config"
	"github.com/agenthands/annex/internal/core/model"
)

const (
	linkSummaryPath   = "/BA/api/get_link_summary/%d"
	linkedRecordsPath = "/BA/api/get_records_by_link"

	maxResponseBytes = 32 << 20
)

// HTTPGateway queries a Brain Annex server over its JSON API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewHTTPGateway(cfg config.GatewayConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// envelope is the response wrapper every API endpoint uses.
type envelope struct {
	Status       string          `json:"status"`
	Payload      json.RawMessage `json:"payload"`
	ErrorMessage string          `json:"error_message"`
}

type linkSummaryPayload struct {
	In  []namedCount `json:"in"`
	Out []namedCount `json:"out"`
}

// UnmarshalJSON reads a [name, count] pair.
func (p *namedCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [name, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.name); err != nil {
		return fmt.Errorf("relationship name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.count); err != nil {
		return fmt.Errorf("relationship count: %w", err)
	}
	return nil
}

func (g *HTTPGateway) FetchLinkSummary(ctx context.Context, internalID int64) (items []model.LinkSummaryItem, err error) {
	start := time.Now()
	defer func() {
		observe(g.logger, "http", opLinkSummary, start, err, zap.Int64("internal_id", internalID))
	}()

	url := g.baseURL + fmt.Sprintf(linkSummaryPath, internalID)
	raw, err := g.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var summary linkSummaryPayload
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse link summary: %w", err)
	}
	return summaryFromPairs(summary.In, summary.Out), nil
}

type linkedRecordsRequest struct {
	InternalID int64  `json:"internal_id"`
	RelName    string `json:"rel_name"`
	Dir        string `json:"dir"`
}

func (g *HTTPGateway) FetchLinkedRecords(ctx context.Context, internalID int64, relName string, dir model.Direction) (records []model.Payload, err error) {
	start := time.Now()
	defer func() {
		observe(g.logger, "http", opLinkedRecords, start, err,
			zap.Int64("internal_id", internalID), zap.String("rel_name", relName), zap.String("dir", string(dir)))
	}()

	body, err := json.Marshal(linkedRecordsRequest{InternalID: internalID, RelName: relName, Dir: string(dir)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	raw, err := g.do(ctx, http.MethodPost, g.baseURL+linkedRecordsPath, body)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse linked records: %w", err)
	}
	return records, nil
}

// do issues one request and unwraps the response envelope, returning its payload.
func (g *HTTPGateway) do(ctx context.Context, method, url string, body []byte) (json.RawMessage, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, url, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if env.Status != "ok" {
		msg := env.ErrorMessage
		if msg == "" {
			msg = "no error message"
		}
		return nil, fmt.Errorf("%w: %s", ErrServer, msg)
	}
	return env.Payload, nil
}
