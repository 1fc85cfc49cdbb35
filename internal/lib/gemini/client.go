// Package gemini is the generation provider integration.
//
// Docs: https://ai.google.dev/api/rest/v1beta/models/generateContent
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/deppfellow/kwcluster/internal/config"
	"github.com/deppfellow/kwcluster/internal/errs"
	"github.com/deppfellow/kwcluster/internal/metrics"
)

const providerName = "gemini"

// Client sends a single-turn prompt to the Gemini generateContent endpoint.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	endpoint   string
}

// NewClient creates a Gemini client from the generation provider config.
func NewClient(cfg config.GenerationProviderConfig, httpClient *resty.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultGenerationBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGenerationModel
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		endpoint:   fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(baseURL, "/"), model),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt as the only user turn and returns the text of
// the first part of the first candidate.
//
// A non-2xx answer is an UpstreamGenerationFailure and an envelope
// without a candidate part is a ClusterParseFailure. Transport errors
// are InternalErrors with the API key redacted from the message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	start := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		metrics.RecordProviderCall(providerName, metrics.OutcomeTransportError, time.Since(start).Seconds())
		return "", errs.NewInternalServerError(c.redact(fmt.Errorf("failed to query Gemini API: %w", err)))
	}

	if !resp.IsSuccess() {
		metrics.RecordProviderCall(providerName, metrics.OutcomeUpstreamError, time.Since(start).Seconds())
		return "", errs.NewUpstreamGenerationError(
			c.redact(fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode(), resp.String())),
		)
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		metrics.RecordProviderCall(providerName, metrics.OutcomeDecodeError, time.Since(start).Seconds())
		return "", errs.NewClusterParseError(err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		metrics.RecordProviderCall(providerName, metrics.OutcomeDecodeError, time.Since(start).Seconds())
		return "", errs.NewClusterParseError(errors.New("response has no candidate text"))
	}

	metrics.RecordProviderCall(providerName, metrics.OutcomeSuccess, time.Since(start).Seconds())

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// redact strips the API key, raw or query-escaped, from err's message.
// The original error stays reachable through Unwrap.
func (c *Client) redact(err error) error {
	if c.apiKey == "" {
		return err
	}

	msg := strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED")
	msg = strings.ReplaceAll(msg, url.QueryEscape(c.apiKey), "REDACTED")

	return &redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
