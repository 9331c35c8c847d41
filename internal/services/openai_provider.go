package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"ticketclassifier/internal/config"
	"ticketclassifier/internal/costtracker"
	"ticketclassifier/internal/models"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// chatCompletionCreator is the slice of *openai.Client the provider uses.
type chatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements CompletionService against Azure OpenAI or the
// public OpenAI API. On Azure the model is the deployment name.
type OpenAIProvider struct {
	client  chatCompletionCreator
	name    string
	model   string
	timeout time.Duration

	// Dependencies for cost tracking
	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewOpenAIProvider builds a provider from the client settings. The settings
// are used as given; no environment lookups happen here.
func NewOpenAIProvider(cc config.ClientConfig, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) (*OpenAIProvider, error) {
	if cc.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", models.ErrConfig)
	}
	if cc.Model == "" {
		return nil, fmt.Errorf("%w: model identifier is required", models.ErrConfig)
	}

	var oc openai.ClientConfig
	switch cc.Provider {
	case config.ProviderAzure, "":
		if cc.Endpoint == "" {
			return nil, fmt.Errorf("%w: Azure OpenAI endpoint is required", models.ErrConfig)
		}
		oc = openai.DefaultAzureConfig(cc.APIKey, cc.Endpoint)
		if cc.APIVersion != "" {
			oc.APIVersion = cc.APIVersion
		}
		// Deployment names are used verbatim; the default mapper strips dots.
		oc.AzureModelMapperFunc = func(model string) string { return model }
	case config.ProviderOpenAI:
		oc = openai.DefaultConfig(cc.APIKey)
		if cc.Endpoint != "" {
			oc.BaseURL = cc.Endpoint
		}
	default:
		return nil, fmt.Errorf("%w: provider %q is not served by the OpenAI client", models.ErrConfig, cc.Provider)
	}

	name := cc.Provider
	if name == "" {
		name = config.ProviderAzure
	}
	log.Debugf("OpenAI completion provider initialized (provider=%s model=%s endpoint=%s)", name, cc.Model, cc.Endpoint)

	return newOpenAIProvider(openai.NewClientWithConfig(oc), name, cc.Model, cc.Timeout, costTracker, pricing), nil
}

func newOpenAIProvider(client chatCompletionCreator, name, model string, timeout time.Duration, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) *OpenAIProvider {
	if costTracker == nil {
		costTracker = costtracker.NewNoop()
	}
	return &OpenAIProvider{
		client:      client,
		name:        name,
		model:       model,
		timeout:     timeout,
		costTracker: costTracker,
		pricing:     pricing,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return p.name }

// ModelName returns the model or deployment identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// GenerateChatCompletion sends one chat completion request and returns the
// trimmed text of the first choice.
func (p *OpenAIProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (Completion, error) {
	if p.client == nil {
		return Completion{}, fmt.Errorf("%w: OpenAI provider is not initialized", models.ErrCompletionFailed)
	}
	if p.model == "" {
		return Completion{}, fmt.Errorf("%w: model identifier is empty", models.ErrCompletionFailed)
	}
	if len(messages) == 0 {
		return Completion{}, fmt.Errorf("%w: no messages to send", models.ErrCompletionFailed)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: openAITemperature(opts.Temperature),
	})
	if err != nil {
		return Completion{}, fmt.Errorf("%w: %s chat completion: %w", models.ErrCompletionFailed, p.name, err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("%w: no choices returned from %s", models.ErrCompletionFailed, p.name)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Completion{}, fmt.Errorf("%w: empty completion (finish_reason=%s)", models.ErrCompletionFailed, resp.Choices[0].FinishReason)
	}

	usage := TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	p.recordUsage(ctx, usage)

	return Completion{Text: text, Usage: usage}, nil
}

// --- Cost Tracking ---

func (p *OpenAIProvider) recordUsage(ctx context.Context, usage TokenUsage) {
	recordUsage(ctx, p.costTracker, p.pricing, p.name, p.model, usage)
}

func recordUsage(ctx context.Context, tracker costtracker.CostTracker, pricing map[string]config.PricingInfo, provider, model string, usage TokenUsage) {
	if tracker == nil || usage.TotalTokens <= 0 {
		return
	}
	event := costtracker.CostEvent{
		Operation:    "classification",
		Provider:     provider,
		Model:        model,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}
	if price, ok := pricing[model]; ok {
		event.AmountUSD = float64(usage.PromptTokens)*price.InputPerToken +
			float64(usage.CompletionTokens)*price.OutputPerToken
	} else {
		log.Debugf("Pricing info not found for model '%s'; recording tokens only.", model)
	}
	if err := tracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for classification: %v", err)
	}
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case ChatMessageRoleSystem:
			role = openai.ChatMessageRoleSystem
		case ChatMessageRoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// openAITemperature maps 0 to the smallest positive float32. The request
// field is omitempty, so a literal 0 would be dropped and the server default
// (1.0) used instead.
func openAITemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

var _ CompletionService = (*OpenAIProvider)(nil)
