package analysis

import (
	"context"
	"fmt"

	"github.com/prodscope/prodscope/pkg/llm"
)

// ContentGenerator produces analytical text for a task. *llm.Manager
// satisfies this; the indirection keeps the pipeline testable without a
// provider stack.
type ContentGenerator interface {
	Invoke(ctx context.Context, task llm.TaskType, content, systemPrompt string) *llm.Result
}

// RecordCounter reports how many warehouse records back the analysis.
// *datasource.Warehouse satisfies this.
type RecordCounter interface {
	RecordCount(ctx context.Context) (int, error)
}

// defaultDataSources tags insights with the collaborators consulted per
// step: the product warehouse, search grounding, and trend data.
var defaultDataSources = []string{"warehouse", "search", "trends"}

// stepSpec pairs a pipeline stage with the task type that routes its
// content generation.
type stepSpec struct {
	title string
	task  llm.TaskType
}

// The fixed six-layer insight pipeline, defined once process-wide.
var sixLayerPipeline = []stepSpec{
	{"Market macro trends & visual preferences", llm.TaskTrendAnalysis},
	{"Product weaknesses & supply-chain pain points", llm.TaskPainPointAnalysis},
	{"Latent demand & innovation opportunities", llm.TaskOpportunityIdentification},
	{"Seasonal sales & pricing strategy", llm.TaskTrendAnalysis},
	{"Feature and user pain point correlation", llm.TaskSentimentAnalysis},
	{"Brand performance & competitive landscape", llm.TaskExecutiveSummary},
}

// systemPrompts gives each task type its analyst persona.
var systemPrompts = map[llm.TaskType]string{
	llm.TaskTrendAnalysis:             "You are a market trend analyst skilled at recognizing market patterns and forecasting trends.",
	llm.TaskPainPointAnalysis:         "You are a product quality analyst skilled at extracting pain points from customer feedback.",
	llm.TaskOpportunityIdentification: "You are a product innovation expert skilled at discovering market opportunities.",
	llm.TaskSentimentAnalysis:         "You are a sentiment analysis expert skilled at extracting opinions from user reviews.",
	llm.TaskExecutiveSummary:          "You are a professional analyst skilled at producing structured insight reports.",
}

const defaultSystemPrompt = "You are a product analysis expert."

// SixLayerSteps builds the default pipeline. Each step asks the
// orchestration layer for content; the warehouse, when present, grounds
// the prompt with the size of the underlying dataset.
func SixLayerSteps(gen ContentGenerator, warehouse RecordCounter) []Step {
	steps := make([]Step, 0, len(sixLayerPipeline))
	for _, spec := range sixLayerPipeline {
		spec := spec
		steps = append(steps, Step{
			Title: spec.title,
			Run: func(ctx context.Context, query string) (StepOutput, error) {
				prompt := buildStepPrompt(ctx, spec.title, query, warehouse)

				system, ok := systemPrompts[spec.task]
				if !ok {
					system = defaultSystemPrompt
				}

				result := gen.Invoke(ctx, spec.task, prompt, system)
				return StepOutput{
					Content:     result.Content,
					DataSources: defaultDataSources,
				}, nil
			},
		})
	}
	return steps
}

func buildStepPrompt(ctx context.Context, title, query string, warehouse RecordCounter) string {
	prompt := fmt.Sprintf("Analysis layer: %s.\nResearch query: %s.\nProduce a concise, structured insight for this layer.", title, query)
	if warehouse != nil {
		if count, err := warehouse.RecordCount(ctx); err == nil && count > 0 {
			prompt += fmt.Sprintf("\nThe product warehouse holds %d records relevant to this analysis.", count)
		}
	}
	return prompt
}
