package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticketclassifier/internal/config"
	"ticketclassifier/internal/costtracker"
	"ticketclassifier/internal/models"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiProvider implements CompletionService using the Google Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string // e.g. "gemini-1.5-flash"
	timeout time.Duration

	costTracker costtracker.CostTracker
	pricing     map[string]config.PricingInfo
}

// NewGeminiProvider creates a Gemini completion provider.
func NewGeminiProvider(ctx context.Context, cc config.ClientConfig, costTracker costtracker.CostTracker, pricing map[string]config.PricingInfo) (*GeminiProvider, error) {
	if cc.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", models.ErrConfig)
	}
	if cc.Model == "" {
		return nil, fmt.Errorf("%w: model identifier is required", models.ErrConfig)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cc.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if costTracker == nil {
		costTracker = costtracker.NewNoop()
	}

	log.Debugf("Gemini completion provider initialized (model=%s)", cc.Model)
	return &GeminiProvider{
		client:      client,
		model:       cc.Model,
		timeout:     cc.Timeout,
		costTracker: costTracker,
		pricing:     pricing,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return config.ProviderGemini }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.model }

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// GenerateChatCompletion sends the conversation as one GenerateContent call.
// System messages become the model's system instruction.
func (p *GeminiProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (Completion, error) {
	if p.client == nil {
		return Completion{}, fmt.Errorf("%w: Gemini provider is not initialized", models.ErrCompletionFailed)
	}
	if p.model == "" {
		return Completion{}, fmt.Errorf("%w: model identifier is empty", models.ErrCompletionFailed)
	}

	system, parts := splitGeminiMessages(messages)
	if len(parts) == 0 {
		return Completion{}, fmt.Errorf("%w: no messages to send", models.ErrCompletionFailed)
	}

	m := p.client.GenerativeModel(p.model)
	m.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if system != nil {
		m.SystemInstruction = system
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return Completion{}, fmt.Errorf("%w: gemini generate content: %w", models.ErrCompletionFailed, err)
	}

	text := geminiText(resp)
	if text == "" {
		return Completion{}, fmt.Errorf("%w: no text returned from gemini", models.ErrCompletionFailed)
	}

	usage := geminiUsage(resp)
	recordUsage(ctx, p.costTracker, p.pricing, p.Name(), p.model, usage)
	return Completion{Text: text, Usage: usage}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func splitGeminiMessages(messages []ChatMessage) (*genai.Content, []genai.Part) {
	var system *genai.Content
	var parts []genai.Part
	for _, msg := range messages {
		if msg.Role == ChatMessageRoleSystem {
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.Text(msg.Content))
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}
	return system, parts
}

// geminiText joins the text parts of the first candidate and trims it.
func geminiText(resp *genai.GenerateContentResponse) string {
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

func geminiUsage(resp *genai.GenerateContentResponse) TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

var _ CompletionService = (*GeminiProvider)(nil)
