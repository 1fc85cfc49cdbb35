package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/kwcluster/internal/errs"
	"github.com/deppfellow/kwcluster/internal/metrics"
	"github.com/deppfellow/kwcluster/internal/validation"
)

// QuestionSource returns the "People Also Ask" questions for a keyword
// in a country, in provider order.
type QuestionSource interface {
	Questions(ctx context.Context, keyword, country string) ([]string, error)
}

// ClusterGenerator sends a prompt to a text generation model and
// returns the raw reply text.
type ClusterGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClusterMap maps a cluster title to its questions.
//
// It is kept as raw JSON: the generation reply is only checked for JSON
// syntax, so a reply with unexpected types still passes through as-is.
type ClusterMap = json.RawMessage

// emptyClusters is the ClusterMap returned when the search yields no questions.
const emptyClusters = `{}`

// ClusterRequest is the body of POST /process-keyword.
type ClusterRequest struct {
	Keyword string `json:"keyword" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Validate reports a missing keyword or country as the fixed 400 error.
func (r *ClusterRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return errs.ValidationError(err)
	}
	return nil
}

// ClusterResponse is the success body of POST /process-keyword.
type ClusterResponse struct {
	Clusters ClusterMap `json:"clusters"`
}

// ClusterService fetches questions for a keyword and has them clustered.
//
// It holds no per-request state; one instance serves all requests.
type ClusterService struct {
	questions QuestionSource
	generator ClusterGenerator
}

// NewClusterService composes a question source and a cluster generator.
func NewClusterService(questions QuestionSource, generator ClusterGenerator) *ClusterService {
	return &ClusterService{
		questions: questions,
		generator: generator,
	}
}

// Cluster runs search, prompt, generation and parse, strictly in that
// order.
//
// When the search yields no questions the generator is not called and
// an empty ClusterMap is returned. Errors are *errs.HTTPError values
// from the step that failed; nothing is retried.
func (s *ClusterService) Cluster(ctx context.Context, req *ClusterRequest) (*ClusterResponse, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("operation", "cluster_keyword").
		Str("country", req.Country).
		Logger()

	raw, err := s.questions.Questions(ctx, req.Keyword, req.Country)
	if err != nil {
		return nil, err
	}

	questions := nonEmpty(raw)
	metrics.RecordQuestions(len(questions))

	if len(questions) == 0 {
		logger.Info().Msg("no related questions found")
		return &ClusterResponse{Clusters: ClusterMap(emptyClusters)}, nil
	}

	logger.Debug().Int("questions", len(questions)).Msg("related questions fetched")

	prompt, err := BuildClusterPrompt(req.Keyword, questions)
	if err != nil {
		return nil, errs.NewInternalServerError(err)
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	clusters, err := ParseClusters(text)
	if err != nil {
		logger.Warn().Int("reply_length", len(text)).Msg("generation reply is not valid JSON")
		return nil, err
	}

	return &ClusterResponse{Clusters: clusters}, nil
}

// ParseClusters parses the generation reply as JSON.
//
// Only syntax is checked. Surrounding whitespace is tolerated; anything
// else around the JSON value (markdown fences, prose) is a
// ClusterParseFailure.
func ParseClusters(text string) (ClusterMap, error) {
	var clusters json.RawMessage
	if err := json.Unmarshal([]byte(text), &clusters); err != nil {
		return nil, errs.NewClusterParseError(err)
	}

	return clusters, nil
}

const clusterPromptTemplate = `You are an expert SEO and content strategist. Based on the keyword "%s", take the following list of "People Also Ask" questions and group them into logical, thematic clusters. The cluster titles should be short and descriptive, and every question must be copied verbatim into exactly one cluster. Return ONLY a valid JSON object. Do not include any text before or after the JSON object. Do not use markdown code fences. The format should be {"Cluster Title 1": ["Question 1", "Question 2"], "Cluster Title 2": ["Question 3", "Question 4"]}.

Questions:
%s`

// BuildClusterPrompt renders the clustering instruction for keyword and
// questions. The output depends only on its inputs.
//
// Questions are embedded as a JSON array without HTML escaping, so they
// appear exactly as the search provider returned them.
func BuildClusterPrompt(keyword string, questions []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(questions); err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}

	return fmt.Sprintf(clusterPromptTemplate, keyword, strings.TrimSuffix(buf.String(), "\n")), nil
}

func nonEmpty(questions []string) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q) != "" {
			out = append(out, q)
		}
	}
	return out
}
