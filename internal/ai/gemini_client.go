package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/models"
)

// GeminiClient talks to the Gemini generateContent REST endpoint.
type GeminiClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewGeminiClient builds the AI client. The retry policy matches the
// rest of the transport layer.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (g *GeminiClient) SetBaseURL(url string) {
	g.baseURL = url
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	_, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// pairResponse mirrors the JSON object the model is asked to return.
// Pointer fields distinguish an explicit null from a missing value.
type pairResponse struct {
	CAQuestion       *string `json:"caQuestion"`
	RelatedReference *string `json:"relatedReference"`
}

// GenerateQuestionPair prompts the model for one original question plus
// one claimed real reference question for the summarized article. It
// returns (nil, nil) when the model declines or returns an incomplete
// pair: a discard, not an error. Parse failures are returned as errors
// for the caller to log and skip.
func (g *GeminiClient) GenerateQuestionPair(ctx context.Context, article models.Article) (*models.QuestionPair, error) {
	log := logger.Get()

	raw, err := g.generate(ctx, buildQuestionPairPrompt(article))
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in model output")
	}

	var parsed pairResponse
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}

	if parsed.CAQuestion == nil || *parsed.CAQuestion == "" ||
		parsed.RelatedReference == nil || *parsed.RelatedReference == "" {
		log.Info().
			Str("title", article.Title).
			Bool("has_question", parsed.CAQuestion != nil && *parsed.CAQuestion != "").
			Bool("has_reference", parsed.RelatedReference != nil && *parsed.RelatedReference != "").
			Msg("Discarding incomplete question pair")
		return nil, nil
	}

	return &models.QuestionPair{
		CAQuestion:       *parsed.CAQuestion,
		RelatedReference: *parsed.RelatedReference,
	}, nil
}
