package interpreter

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"vitrine/internal/models"
)

// GeminiInterpreter implements Service using the Google Gemini API.
type GeminiInterpreter struct {
	client *genai.Client
	opts   Options
}

// NewGeminiInterpreter creates a Gemini-backed interpreter. When no API key
// is configured the interpreter is returned disabled rather than failing:
// every Interpret call then yields the fallback result without a network call.
func NewGeminiInterpreter(ctx context.Context, apiKey string, opts Options) (*GeminiInterpreter, error) {
	opts.applyDefaults()
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY") // Fallback to env var
	}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. AI search interpretation will be disabled.")
		return &GeminiInterpreter{client: nil, opts: opts}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Infof("Gemini interpreter initialized with model %s", opts.Model)
	return &GeminiInterpreter{client: client, opts: opts}, nil
}

// Available reports whether the backend is configured.
func (g *GeminiInterpreter) Available() bool { return g.client != nil }

// Interpret analyzes one query. All failure modes degrade to Fallback.
func (g *GeminiInterpreter) Interpret(ctx context.Context, query string, productNames []string) models.Interpretation {
	if g.client == nil {
		return Fallback(query)
	}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < g.opts.MinQueryLength {
		return Fallback(query)
	}

	model := g.client.GenerativeModel(g.opts.Model)
	model.SetTemperature(g.opts.Temperature)
	model.SetMaxOutputTokens(g.opts.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildSystemPrompt(g.opts, productNames))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(query))
	if err != nil {
		log.Warnf("Gemini interpretation failed for query %q: %v", query, err)
		return Fallback(query)
	}

	text := candidateText(resp)
	if text == "" {
		log.Warnf("Gemini returned no text payload for query %q", query)
		return Fallback(query)
	}
	return parseInterpretation(text, query)
}

// InterpretBatch analyzes queries concurrently, preserving input order.
func (g *GeminiInterpreter) InterpretBatch(ctx context.Context, queries []string, productNames []string) []models.Interpretation {
	return interpretConcurrently(ctx, g, queries, productNames)
}

// Close releases the underlying client.
func (g *GeminiInterpreter) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}

var _ Service = (*GeminiInterpreter)(nil)
