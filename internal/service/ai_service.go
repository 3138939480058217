package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/pkg/monitoring"
)

// AIService is the single outbound integration with the hosted
// chat-completion endpoint. One request per tutoring run, hard wall-clock
// budget, no retry: every failure mode collapses into one error for the
// fallback policy to absorb.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{},
	}
}

// UpdateConfig swaps the endpoint settings, so API keys can be rotated
// without a restart. In-flight calls finish with the old settings.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

// Configured reports whether the upstream endpoint is usable.
func (s *AIService) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Configured()
}

type AIChatMessage struct {
	Role string `json:"role"`
	// Content is either a plain string or, when an image is attached,
	// an array of content parts.
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Stream      bool            `json:"stream"`
}

// chatCompletionResponse tolerates the two upstream shapes seen in the
// wild: the OpenAI choices array and a bare top-level "response" field.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Response string `json:"response"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CallOptions tune one model call. Image requests get a looser token and
// temperature budget since descriptive replies run longer.
type CallOptions struct {
	ImageDataURL string
}

// Call sends one chat-completion request and returns the raw reply text.
// The context deadline is the abort budget; expiry, transport errors and
// non-2xx statuses are all reported as plain errors.
func (s *AIService) Call(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	hasImage := opts.ImageDataURL != ""

	modelName := cfg.Model
	temperature := 0.6
	maxTokens := 900
	if hasImage {
		modelName = cfg.VisionModel
		temperature = 0.8
		maxTokens = 1600
	}

	var userContent interface{} = user
	if hasImage {
		userContent = []contentPart{
			{Type: "text", Text: user},
			{Type: "image_url", ImageURL: &imageURL{URL: opts.ImageDataURL}},
		}
	}

	reqBody := chatCompletionRequest{
		Model: modelName,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userContent},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	monitoring.ModelCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 && result.Choices[0].Message.Content != "" {
		return result.Choices[0].Message.Content, nil
	}
	if result.Response != "" {
		return result.Response, nil
	}

	return "", fmt.Errorf("AI returned no content")
}
