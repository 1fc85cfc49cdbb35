// Package serper is the search provider integration.
//
// It asks Serper's Google search endpoint for a keyword in a country
// and returns the "People Also Ask" questions of the result page.
package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/deppfellow/kwcluster/internal/config"
	"github.com/deppfellow/kwcluster/internal/errs"
	"github.com/deppfellow/kwcluster/internal/metrics"
)

const providerName = "serper"

// Client implements the Serper search call.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	endpoint   string
}

// NewClient creates a Serper client from the search provider config.
func NewClient(cfg config.SearchProviderConfig, httpClient *resty.Client) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultSearchEndpoint
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
	}
}

type searchRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
}

// searchResponse only declares the part of the result page we read.
type searchResponse struct {
	PeopleAlsoAsk []relatedQuestion `json:"peopleAlsoAsk"`
}

type relatedQuestion struct {
	Question string `json:"question"`
	Snippet  string `json:"snippet,omitempty"`
	Title    string `json:"title,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Questions returns the related questions for keyword in country, in
// provider order. A result page without the section yields an empty
// slice and no error.
//
// A non-2xx answer is an UpstreamSearchFailure; a transport failure or
// an undecodable body is an InternalError.
func (c *Client) Questions(ctx context.Context, keyword, country string) ([]string, error) {
	start := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(searchRequest{Q: keyword, GL: country}).
		Post(c.endpoint)
	if err != nil {
		metrics.RecordProviderCall(providerName, metrics.OutcomeTransportError, time.Since(start).Seconds())
		return nil, errs.NewInternalServerError(fmt.Errorf("failed to query Serper search API: %w", err))
	}

	if !resp.IsSuccess() {
		metrics.RecordProviderCall(providerName, metrics.OutcomeUpstreamError, time.Since(start).Seconds())
		return nil, errs.NewUpstreamSearchError(
			fmt.Errorf("Serper search API error (status %d): %s", resp.StatusCode(), resp.String()),
		)
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		metrics.RecordProviderCall(providerName, metrics.OutcomeDecodeError, time.Since(start).Seconds())
		return nil, errs.NewInternalServerError(fmt.Errorf("failed to decode Serper search response: %w", err))
	}

	metrics.RecordProviderCall(providerName, metrics.OutcomeSuccess, time.Since(start).Seconds())

	questions := make([]string, 0, len(result.PeopleAlsoAsk))
	for _, item := range result.PeopleAlsoAsk {
		questions = append(questions, item.Question)
	}

	return questions, nil
}
