package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"medscan/internal/logger"
)

// OpenAIGenerator implements TextGenerator against the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIGenerator creates a generator from the environment.
// Requires OPENAI_API_KEY; OPENAI_MODEL optionally overrides the model.
func NewOpenAIGenerator() (*OpenAIGenerator, error) {
	const op = "NewOpenAIGenerator"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY environment variable is required", op)
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4"
	}

	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    logger.WithComponent("openai-generator"),
	}, nil
}

// NewOpenAIGeneratorWithClient creates a generator with an explicit client (for testing).
func NewOpenAIGeneratorWithClient(client *openai.Client, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: client,
		model:  model,
		log:    logger.WithComponent("openai-generator"),
	}
}

// Generate returns prose for the given prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "Generate"

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: 1000,
	})
	if err != nil {
		return "", fmt.Errorf("%s: chat completion request failed: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices", op)
	}

	content := resp.Choices[0].Message.Content
	g.log.Debug().
		Int("prompt_len", len(prompt)).
		Int("response_len", len(content)).
		Msg("Received text generation response")

	return content, nil
}
