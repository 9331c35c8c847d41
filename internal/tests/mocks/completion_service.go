// Package mocks holds testify mocks shared by package tests.
package mocks

import (
	"context"

	"ticketclassifier/internal/services"

	"github.com/stretchr/testify/mock"
)

// CompletionService is a testify mock of services.CompletionService.
type CompletionService struct {
	mock.Mock
}

// NewCompletionService returns a mock that reports the given provider and
// model names.
func NewCompletionService(provider, model string) *CompletionService {
	m := &CompletionService{}
	m.On("Name").Return(provider).Maybe()
	m.On("ModelName").Return(model).Maybe()
	m.On("Status").Return(services.ProviderStatusActive).Maybe()
	return m
}

func (m *CompletionService) GenerateChatCompletion(ctx context.Context, messages []services.ChatMessage, opts services.CompletionOptions) (services.Completion, error) {
	args := m.Called(ctx, messages, opts)
	return args.Get(0).(services.Completion), args.Error(1)
}

func (m *CompletionService) Status() services.ProviderStatus {
	return m.Called().Get(0).(services.ProviderStatus)
}

func (m *CompletionService) Name() string {
	return m.Called().String(0)
}

func (m *CompletionService) ModelName() string {
	return m.Called().String(0)
}

// ReturnText makes every completion call answer text.
func (m *CompletionService) ReturnText(text string) *mock.Call {
	return m.On("GenerateChatCompletion", mock.Anything, mock.Anything, mock.Anything).
		Return(services.Completion{Text: text}, nil)
}

var _ services.CompletionService = (*CompletionService)(nil)
