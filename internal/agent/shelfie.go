package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shelfie/backend/internal/agent/prompt"
	"shelfie/backend/internal/config"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// AppName identifies Shelfie sessions in the ADK session service
	AppName = "shelfie"
	// MaxOutputTokens leaves room for five or more detailed recommendations
	MaxOutputTokens = 4096
)

// ErrAgentInvocation wraps any failure while running the model
var ErrAgentInvocation = errors.New("agent invocation failed")

// ShelfieAgent wraps the ADK agent and runner. It is built once at startup
// and is safe for concurrent use.
type ShelfieAgent struct {
	runner         *runner.Runner
	sessionService session.Service
	model          string
	now            func() time.Time
}

// NewShelfieAgent creates the ADK-based recommendation agent
func NewShelfieAgent(ctx context.Context, cfg *config.Config) (*ShelfieAgent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Create Gemini model for ADK
	geminiModel, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}

	tools, err := BuildSearchTools(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}

	return newShelfieAgent(geminiModel, tools, cfg.Model)
}

func newShelfieAgent(llm model.LLM, tools []tool.Tool, modelName string) (*ShelfieAgent, error) {
	promptBuilder := prompt.NewBuilder()

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:        AppName,
		Model:       llm,
		Description: promptBuilder.BuildDescription(),
		Instruction: promptBuilder.BuildInstruction(),
		Tools:       tools,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			MaxOutputTokens: MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM agent: %w", err)
	}

	sessionService := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        AppName,
		Agent:          llmAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &ShelfieAgent{
		runner:         r,
		sessionService: sessionService,
		model:          modelName,
		now:            time.Now,
	}, nil
}

// Model returns the configured model id
func (a *ShelfieAgent) Model() string {
	return a.model
}

// Recommend sends the reader's prompt to the agent and returns the raw text it produced.
// Each call runs in its own throwaway session.
func (a *ShelfieAgent) Recommend(ctx context.Context, userPrompt string) (string, error) {
	userID := "reader_" + uuid.NewString()

	created, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName: AppName,
		UserID:  userID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to create session: %v", ErrAgentInvocation, err)
	}
	sessionID := created.Session.ID()
	defer a.deleteSession(userID, sessionID)

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt.BuildMessageContext(userPrompt, prompt.ContextOptions{Now: a.now()})},
		},
	}

	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}

	var sb strings.Builder
	for event, err := range a.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrAgentInvocation, err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	responseText := sb.String()
	if strings.TrimSpace(responseText) == "" {
		return "", fmt.Errorf("%w: no response from agent", ErrAgentInvocation)
	}

	log.Printf("[AGENT] Raw agent response: %d chars", len(responseText))
	return responseText, nil
}

// deleteSession drops the request's session; nothing is kept between requests
func (a *ShelfieAgent) deleteSession(userID, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.sessionService.Delete(ctx, &session.DeleteRequest{
		AppName:   AppName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		log.Printf("[AGENT] Warning: Failed to delete session %s: %v", sessionID, err)
	}
}

// IsQuotaError checks if the error is a model provider rate limit error
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	// Check for gRPC ResourceExhausted status
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	// genai.APIError renders as "Error <code>, Message: ..."
	errStr := err.Error()
	return strings.Contains(errStr, "ResourceExhausted") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "Error 429,") ||
		strings.Contains(errStr, "quota")
}
