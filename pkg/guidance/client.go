package guidance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// GuidanceResult is the outcome of a regulatory guidance lookup.
type GuidanceResult struct {
	Success         bool     `json:"success"`
	Insights        []string `json:"insights"`
	FallbackMessage string   `json:"fallback_message,omitempty"`
}

// Client looks up current regulatory guidance for an audit question.
type Client interface {
	SearchGuidance(ctx context.Context, query, documentType, framework string) (*GuidanceResult, error)
}

// HTTPClient queries a web search API for audit guidance.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

var _ Client = &HTTPClient{}

func NewHTTPClient(baseURL, apiKey string, logger *log.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *HTTPClient) SearchGuidance(ctx context.Context, query, documentType, framework string) (*GuidanceResult, error) {
	enhanced := query
	if documentType != "" {
		enhanced += " " + documentType
	}
	if framework != "" {
		enhanced += " " + framework
	}
	enhanced += " audit compliance guidance"

	payload, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      enhanced,
		MaxResults: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal guidance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create guidance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guidance request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read guidance response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guidance api error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("decode guidance response: %w", err)
	}

	var insights []string
	if searchResp.Answer != "" {
		insights = append(insights, searchResp.Answer)
	}
	for _, r := range searchResp.Results {
		if r.Content != "" {
			insights = append(insights, r.Content)
		}
	}

	return &GuidanceResult{
		Success:  true,
		Insights: insights,
	}, nil
}

// FallbackGuidance is the static degraded result used when the guidance
// service is unreachable or unconfigured.
func FallbackGuidance() *GuidanceResult {
	return &GuidanceResult{
		Success: false,
		FallbackMessage: "Current regulatory guidance is unavailable. " +
			"Refer to the latest published SOX and SOC2 requirements for authoritative direction.",
	}
}
