package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"shelfie/backend/internal/agent"
	"shelfie/backend/internal/agent/response"
	"shelfie/backend/internal/middleware"
	"shelfie/backend/internal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultRecommendTimeout is used when the handler is built without a timeout
	DefaultRecommendTimeout = 60 * time.Second

	CodeInvalidRequest = "INVALID_REQUEST"
	CodeEmptyPrompt    = "EMPTY_PROMPT"
	CodeAgentNotReady  = "AGENT_NOT_READY"
	CodeAgentError     = "AGENT_ERROR"
	CodeParseError     = "PARSE_ERROR"

	emptyPromptDetail   = "Prompt cannot be empty"
	agentNotReadyDetail = "Shelfie agent not initialized"
	parseErrorDetail    = "Failed to parse book recommendations. Please try again."
)

var (
	// ErrEmptyPrompt is returned for empty or whitespace-only prompts
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrAgentNotReady is returned when no agent was wired into the handler
	ErrAgentNotReady = errors.New("agent not initialized")
)

// Recommender produces raw recommendation text for a prompt
type Recommender interface {
	Recommend(ctx context.Context, prompt string) (string, error)
}

// Handler serves the Shelfie API. The agent is shared read-only by all requests.
type Handler struct {
	agent   Recommender
	timeout time.Duration
}

// New creates a Handler. A nil agent leaves /recommend rejecting requests.
func New(a Recommender, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = DefaultRecommendTimeout
	}
	return &Handler{agent: a, timeout: timeout}
}

// RegisterHealth mounts the liveness and readiness routes
func (h *Handler) RegisterHealth(r gin.IRoutes) {
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)
}

// RegisterAPI mounts the recommendation route
func (h *Handler) RegisterAPI(r gin.IRoutes) {
	r.POST("/recommend", h.HandleRecommend)
}

func (h *Handler) HandleRecommend(c *gin.Context) {
	startTime := time.Now()
	requestID := middleware.GetRequestID(c)

	if h.agent == nil {
		log.Printf("[REQUEST] id=%s rejected: %v", requestID, ErrAgentNotReady)
		abort(c, http.StatusBadRequest, CodeAgentNotReady, agentNotReadyDetail)
		return
	}

	var req model.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[REQUEST] id=%s invalid body: %v", requestID, err)
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request: body must be JSON with a prompt field")
		return
	}

	// Normalize Unicode to NFC form so lookalike sequences reach the model consistently
	prompt := strings.TrimSpace(norm.NFC.String(req.Prompt))
	if prompt == "" {
		log.Printf("[REQUEST] id=%s rejected: %v", requestID, ErrEmptyPrompt)
		abort(c, http.StatusBadRequest, CodeEmptyPrompt, emptyPromptDetail)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	agentStart := time.Now()
	raw, err := h.agent.Recommend(ctx, prompt)
	agentDuration := time.Since(agentStart)
	if err != nil {
		log.Printf("[AGENT] id=%s Error getting recommendations after %v: %v", requestID, agentDuration, err)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("[TIMEOUT] id=%s agent exceeded %v", requestID, h.timeout)
		}
		if agent.IsQuotaError(err) {
			log.Printf("[QUOTA] id=%s model provider rate limit exceeded", requestID)
		}
		abort(c, http.StatusInternalServerError, CodeAgentError, "Failed to get recommendations: "+err.Error())
		return
	}

	books, err := response.Parse(raw)
	if err != nil {
		// The raw model text stays in the log only
		log.Printf("[PARSE] id=%s %v; raw response: %s", requestID, err, truncateForLog(raw, 500))
		abort(c, http.StatusInternalServerError, CodeParseError, parseErrorDetail)
		return
	}

	log.Printf("[PERF] id=%s Recommend completed in %v (agent: %v) books=%s",
		requestID, time.Since(startTime), agentDuration, response.SummaryForLog(books))

	c.JSON(http.StatusOK, model.NewRecommendationResponse(books))
}

func abort(c *gin.Context, code int, errCode, detail string) {
	c.AbortWithStatusJSON(code, model.ErrorResponse{Detail: detail, Code: errCode})
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
