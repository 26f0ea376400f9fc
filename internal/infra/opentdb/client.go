package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
)

const (
	defaultBaseURL = "https://opentdb.com"
	defaultTimeout = 15 * time.Second

	minAmount = 1
	maxAmount = 50
)

// Client talks to the Open Trivia DB REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// rawQuestion mirrors the provider's question payload. Text fields arrive
// HTML-entity encoded and are decoded before leaving this package.
type rawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []domain.Category `json:"trivia_categories"`
}

func NewClient() *Client {
	return NewClientWith(defaultBaseURL, &http.Client{Timeout: defaultTimeout})
}

// NewClientWith allows overriding the endpoint and transport in tests.
func NewClientWith(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// FetchQuestions requests an ordered batch of questions. Amount is clamped to
// the provider's 1-50 range; empty category/difficulty/type mean "any" and are
// left off the query string.
func (c *Client) FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	amount := req.Amount
	if amount < minAmount {
		amount = minAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	if req.Category != "" {
		params.Set("category", req.Category)
	}
	if req.Difficulty != "" {
		params.Set("difficulty", req.Difficulty)
	}
	if req.Type != "" {
		params.Set("type", string(req.Type))
	}

	var payload questionsResponse
	if err := c.get(ctx, "/api.php?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("trivia api response_code=%d", payload.ResponseCode)
	}

	questions := make([]domain.Question, len(payload.Results))
	for i, raw := range payload.Results {
		questions[i] = decodeQuestion(raw)
	}
	return questions, nil
}

// FetchCategories loads the provider's category catalog.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var payload categoriesResponse
	if err := c.get(ctx, "/api_category.php", &payload); err != nil {
		return nil, err
	}
	return payload.TriviaCategories, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trivia api returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode trivia api response: %w", err)
	}
	return nil
}

func decodeQuestion(raw rawQuestion) domain.Question {
	incorrect := make([]string, len(raw.IncorrectAnswers))
	for i, answer := range raw.IncorrectAnswers {
		incorrect[i] = html.UnescapeString(answer)
	}
	return domain.Question{
		Category:         html.UnescapeString(raw.Category),
		Type:             domain.QuestionType(raw.Type),
		Difficulty:       raw.Difficulty,
		Prompt:           html.UnescapeString(raw.Question),
		CorrectAnswer:    html.UnescapeString(raw.CorrectAnswer),
		IncorrectAnswers: incorrect,
	}
}
