package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prodscope/prodscope/internal/observability"
	"github.com/prodscope/prodscope/pkg/analysis"
)

const chatSystemPrompt = "You are the AI assistant of the Prodscope product insight system. " +
	"You help users analyze product data, identify market trends and discover business opportunities. " +
	"Reply with professional, structured product analysis insights."

// ChatRequest is the inbound chat message.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the chat reply with its provenance.
type ChatResponse struct {
	RequestID       string    `json:"request_id"`
	Response        string    `json:"response"`
	Timestamp       time.Time `json:"timestamp"`
	ProcessingTime  float64   `json:"processing_time"`
	LLMProvider     string    `json:"llm_provider"`
	Model           string    `json:"model"`
	DataSourcesUsed []string  `json:"data_sources_used"`
}

// AnalysisRequest starts an analysis session.
type AnalysisRequest struct {
	Query        string `json:"query" binding:"required"`
	AnalysisType string `json:"analysis_type"`
	UserID       string `json:"user_id"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Prodscope API is running",
		"version":   serverVersion,
		"timestamp": time.Now(),
		"status":    "healthy",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	providers := make([]string, 0)
	for name, status := range s.llm.Providers() {
		if status.HasKey {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"timestamp":     time.Now(),
		"llm_providers": providers,
	})
}

func (s *Server) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, s.llm.Providers())
}

func (s *Server) handleDataSources(c *gin.Context) {
	sources, updated := s.catalog.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"last_updated": updated,
		"sources":      sources,
	})
}

// handleChatMessage answers a chat message. The provider layer never
// surfaces failure here: worst case the reply is the deterministic mock.
func (s *Server) handleChatMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	observability.RecordChatRequest()
	start := time.Now()

	result := s.llm.Converse(c.Request.Context(), req.Message, chatSystemPrompt)

	c.JSON(http.StatusOK, ChatResponse{
		RequestID:       gonanoid.Must(),
		Response:        result.Content,
		Timestamp:       time.Now(),
		ProcessingTime:  time.Since(start).Seconds(),
		LLMProvider:     result.Provider,
		Model:           result.Model,
		DataSourcesUsed: sniffDataSources(req.Message),
	})
}

func (s *Server) handleAnalysisStart(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "six_layer_insight"
	}

	id := s.analyses.Start(req.Query, req.AnalysisType)

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": id,
		"status":      "started",
		"message":     "six-layer insight analysis started",
	})
}

func (s *Server) handleAnalysisStatus(c *gin.Context) {
	status, err := s.analyses.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis id not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleAnalysisResults(c *gin.Context) {
	results, err := s.analyses.Results(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis id not found"})
		case errors.Is(err, analysis.ErrSessionNotReady):
			c.JSON(http.StatusBadRequest, gin.H{"error": "analysis not completed yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, results)
}

// sniffDataSources tags which collaborators a chat message touches. The
// warehouse is always consulted; search and trends only when the message
// asks for them.
func sniffDataSources(message string) []string {
	sources := []string{"warehouse"}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "search") {
		sources = append(sources, "search")
	}
	if strings.Contains(lower, "trend") {
		sources = append(sources, "trends")
	}
	return sources
}
