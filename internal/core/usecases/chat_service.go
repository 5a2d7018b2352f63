package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
)

// LegalAssistantPrompt frames every chat exchange.
const LegalAssistantPrompt = "You are a helpful legal assistant for Indian law. " +
	"Provide accurate information while noting that you cannot provide legal advice " +
	"and users should consult qualified lawyers for specific matters."

const maxChatMessageLen = 4000

// ChatService proxies questions to the completion API.
type ChatService struct {
	completer ports.ChatCompleter
}

// NewChatService creates a new ChatService. A nil completer means the
// assistant is not configured.
func NewChatService(completer ports.ChatCompleter) *ChatService {
	return &ChatService{completer: completer}
}

// Ask returns the assistant's reply to message.
func (s *ChatService) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: No message provided", domain.ErrInvalidInput)
	}
	if len(message) > maxChatMessageLen {
		return "", fmt.Errorf("%w: message too long (max %d characters)", domain.ErrInvalidInput, maxChatMessageLen)
	}
	if s.completer == nil {
		return "", fmt.Errorf("%w: AI service not configured", domain.ErrUnavailable)
	}
	return s.completer.Complete(ctx, LegalAssistantPrompt, message)
}
