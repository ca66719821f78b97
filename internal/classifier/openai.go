package classifier

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/noah-isme/doc-vault-api/pkg/config"
)

const maxPromptContent = 4096

// ModelBased asks an OpenAI-compatible chat model to pick one of the allowed
// labels. Answers outside the set are rejected, so the Classifier contract
// holds regardless of what the model returns.
type ModelBased struct {
	api   *openai.Client
	model string
}

// NewModelBased creates the LLM-backed classifier from configuration. A
// custom BaseURL switches to any OpenAI-compatible endpoint.
func NewModelBased(cfg config.ClassifierConfig) *ModelBased {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return &ModelBased{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.OpenAIModel,
	}
}

// Classify sends the file name and a content excerpt to the model and maps
// the reply back onto the allowed set.
func (c *ModelBased) Classify(ctx context.Context, input Input, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", nil
	}

	excerpt := string(input.Content)
	if len(excerpt) > maxPromptContent {
		excerpt = excerpt[:maxPromptContent]
	}

	prompt := fmt.Sprintf(
		"Classify the document below into exactly one of these types: %s.\nReply with the type only, nothing else.\n\nFile name: %s\n\nContent:\n%s",
		strings.Join(labels, ", "), input.FileName, excerpt,
	)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a document classification assistant."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai classify: empty response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	for _, label := range labels {
		if strings.EqualFold(answer, label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("openai classify: answer %q not in allowed set", answer)
}
