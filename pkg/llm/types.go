package llm

import "fmt"

// TaskType identifies a category of analytical work. Routing, pricing and
// prompt selection all key off this closed set.
type TaskType string

const (
	TaskTrendAnalysis             TaskType = "trend_analysis"
	TaskPainPointAnalysis         TaskType = "pain_point_analysis"
	TaskOpportunityIdentification TaskType = "opportunity_identification"
	TaskSentimentAnalysis         TaskType = "sentiment_analysis"
	TaskKeywordExtraction         TaskType = "keyword_extraction"
	TaskTextClassification        TaskType = "text_classification"
	TaskExecutiveSummary          TaskType = "executive_summary"
	TaskDetailedReport            TaskType = "detailed_report"
	TaskProductRecommendations    TaskType = "product_recommendations"
)

// AllTaskTypes lists every supported task type.
var AllTaskTypes = []TaskType{
	TaskTrendAnalysis,
	TaskPainPointAnalysis,
	TaskOpportunityIdentification,
	TaskSentimentAnalysis,
	TaskKeywordExtraction,
	TaskTextClassification,
	TaskExecutiveSummary,
	TaskDetailedReport,
	TaskProductRecommendations,
}

// ParseTaskType converts a string into a TaskType. Unrecognized names are
// rejected rather than silently routed to a default model.
func ParseTaskType(s string) (TaskType, error) {
	for _, t := range AllTaskTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type: %q", s)
}

// Message represents a single conversation turn sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request contains the parameters for a provider call.
type Request struct {
	Model        string
	Messages     []Message
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Response contains the raw response from a provider.
type Response struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// TokenUsage tracks token consumption for a single call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is what callers of the executor receive. The executor never fails:
// when every candidate is unavailable or errors, Result carries the
// deterministic mock response tagged with provider "mock".
type Result struct {
	Content  string     `json:"content"`
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Usage    TokenUsage `json:"usage"`
}

// Candidate is a (provider, model) pair eligible to service a task.
type Candidate struct {
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
}

func (c Candidate) String() string {
	return c.Provider + ":" + c.Model
}
