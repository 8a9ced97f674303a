package riffusion

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
)

// Prediction states reported by the Replicate API.
const (
	statusStarting   = "starting"
	statusProcessing = "processing"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
	statusCanceled   = "canceled"
)

// Client talks to the Replicate predictions API.
type Client struct {
	apiURL       string
	token        string
	model        Model
	pollInterval time.Duration
	http         *http.Client
	logger       *zap.Logger
}

// ClientConfig holds the connection settings for NewClient.
type ClientConfig struct {
	APIURL       string
	Token        string
	Model        Model
	PollInterval time.Duration
}

// NewClient creates a Replicate client bound to one model version.
// There is no overall timeout: a call waits until the prediction finishes
// or the caller's context is cancelled.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Client{
		apiURL:       strings.TrimRight(cfg.APIURL, "/"),
		token:        cfg.Token,
		model:        cfg.Model,
		pollInterval: interval,
		http:         &http.Client{},
		logger:       logger,
	}
}

// Model returns the model the client is bound to.
func (c *Client) Model() Model {
	return c.model
}

type createRequest struct {
	Version string `json:"version"`
	Input   Params `json:"input"`
}

type prediction struct {
	ID      string          `json:"id"`
	Version string          `json:"version"`
	Status  string          `json:"status"`
	Output  json.RawMessage `json:"output"`
	Error   json.RawMessage `json:"error"`
	URLs    struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p prediction) done() bool {
	switch p.Status {
	case statusSucceeded, statusFailed, statusCanceled:
		return true
	}
	return false
}

// Submit creates a prediction and waits for it to reach a terminal state.
func (c *Client) Submit(ctx context.Context, prompt string, params Params) (Result, error) {
	params.PromptA = prompt
	body, err := json.Marshal(createRequest{Version: c.model.Version, Input: params})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	var pred prediction
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/v1/predictions", body, &pred); err != nil {
		return Result{}, fmt.Errorf("create prediction: %w", err)
	}
	c.logger.Info("prediction created",
		zap.String("id", pred.ID),
		zap.String("model", c.model.Name),
		zap.String("status", pred.Status),
	)

	for !pred.done() {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		pollURL := pred.URLs.Get
		if pollURL == "" {
			pollURL = c.apiURL + "/v1/predictions/" + pred.ID
		}
		if err := c.do(ctx, http.MethodGet, pollURL, nil, &pred); err != nil {
			return Result{}, fmt.Errorf("poll prediction %s: %w", pred.ID, err)
		}
	}

	if pred.Status != statusSucceeded {
		return Result{}, fmt.Errorf("prediction %s %s: %s", pred.ID, pred.Status, errorText(pred.Error))
	}

	c.logger.Info("prediction finished", zap.String("id", pred.ID))
	return Result{
		ID:      pred.ID,
		Status:  pred.Status,
		Model:   c.model.Name,
		Version: c.model.Version,
		Output:  pred.Output,
	}, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out *prediction) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("replicate status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorText renders the prediction's error field, which may be a string or
// an arbitrary JSON value.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "no error detail"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
