package interpreter

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"vitrine/internal/models"
)

// ChatCompletionCreator is the minimal client surface the OpenAI-backed
// interpreter needs. Narrowed for testability.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIInterpreter implements Service against any OpenAI-compatible
// chat-completion endpoint.
type OpenAIInterpreter struct {
	client ChatCompletionCreator
	opts   Options
}

// NewOpenAIInterpreter creates an OpenAI-backed interpreter. Like the Gemini
// variant it is returned disabled when no key is configured.
func NewOpenAIInterpreter(apiKey string, opts Options) *OpenAIInterpreter {
	opts.applyDefaults()
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY") // Fallback to env var
	}
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. AI search interpretation will be disabled.")
		return &OpenAIInterpreter{client: nil, opts: opts}
	}
	log.Infof("OpenAI interpreter initialized with model %s", opts.Model)
	return &OpenAIInterpreter{client: openai.NewClient(apiKey), opts: opts}
}

// NewOpenAIInterpreterWithClient wires an explicit client, primarily for tests.
func NewOpenAIInterpreterWithClient(client ChatCompletionCreator, opts Options) *OpenAIInterpreter {
	opts.applyDefaults()
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	return &OpenAIInterpreter{client: client, opts: opts}
}

func (o *OpenAIInterpreter) Available() bool { return o.client != nil }

func (o *OpenAIInterpreter) Interpret(ctx context.Context, query string, productNames []string) models.Interpretation {
	if o.client == nil {
		return Fallback(query)
	}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < o.opts.MinQueryLength {
		return Fallback(query)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.opts.Model,
		Temperature: o.opts.Temperature,
		MaxTokens:   int(o.opts.MaxOutputTokens),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(o.opts, productNames)},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		log.Warnf("OpenAI interpretation failed for query %q: %v", query, err)
		return Fallback(query)
	}
	if len(resp.Choices) == 0 {
		log.Warnf("OpenAI returned no choices for query %q", query)
		return Fallback(query)
	}
	return parseInterpretation(resp.Choices[0].Message.Content, query)
}

func (o *OpenAIInterpreter) InterpretBatch(ctx context.Context, queries []string, productNames []string) []models.Interpretation {
	return interpretConcurrently(ctx, o, queries, productNames)
}

var _ Service = (*OpenAIInterpreter)(nil)
