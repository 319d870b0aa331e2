package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"quiz-session-service/internal/domain"
)

const (
	// DefaultBaseURL is the public Open Trivia DB endpoint.
	DefaultBaseURL = "https://opentdb.com/api.php"
	defaultAmount  = 15
)

// Open Trivia DB response codes.
const (
	codeSuccess     = 0
	codeRateLimited = 5
)

type apiResponse struct {
	ResponseCode int                  `json:"response_code"`
	Results      []domain.RawQuestion `json:"results"`
}

// Client fetches trivia questions from the Open Trivia DB API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// FetchQuestions requests amount questions. Rate limiting, signalled either
// by HTTP 429 or by response_code 5, is reported as domain.ErrRateLimited
// so callers can fall back to the built-in sample set.
func (c *Client) FetchQuestions(ctx context.Context, amount int) ([]domain.RawQuestion, error) {
	if amount <= 0 {
		amount = defaultAmount
	}

	reqURL := c.baseURL + "?amount=" + url.QueryEscape(strconv.Itoa(amount))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	switch payload.ResponseCode {
	case codeSuccess:
		return payload.Results, nil
	case codeRateLimited:
		return nil, domain.ErrRateLimited
	default:
		return nil, fmt.Errorf("opentdb response_code=%d", payload.ResponseCode)
	}
}
