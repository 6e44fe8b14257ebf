package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prodscope/prodscope/internal/observability"
	"github.com/rs/zerolog"
)

// StepOutput is what one step of the pipeline produces.
type StepOutput struct {
	Content         string
	DataSources     []string
	Recommendations []string
}

// StepFunc performs one step's unit of work for a query.
type StepFunc func(ctx context.Context, query string) (StepOutput, error)

// Step is one named stage of the analysis pipeline.
type Step struct {
	Title string
	Run   StepFunc
}

// Manager owns the process-wide session table and drives each session's
// step runner as a managed goroutine. Sessions live for the process
// lifetime unless a janitor sweep is configured.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session

	steps        []Step
	stepDelay    time.Duration
	stepEstimate time.Duration

	wg     sync.WaitGroup
	logger zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSteps replaces the analysis pipeline.
func WithSteps(steps []Step) Option {
	return func(m *Manager) { m.steps = steps }
}

// WithStepDelay sets the simulated per-step processing delay.
func WithStepDelay(d time.Duration) Option {
	return func(m *Manager) { m.stepDelay = d }
}

// WithStepEstimate sets the per-step duration used for the remaining-time
// heuristic. This is a static figure, not a measured estimate.
func WithStepEstimate(d time.Duration) Option {
	return func(m *Manager) { m.stepEstimate = d }
}

// NewManager creates a session manager running the given pipeline.
func NewManager(steps []Step, logger zerolog.Logger, opts ...Option) *Manager {
	observability.EnsureRegistered()

	m := &Manager{
		sessions:     make(map[string]*session),
		steps:        steps,
		stepDelay:    3 * time.Second,
		stepEstimate: 30 * time.Second,
		logger:       logger.With().Str("component", "analysis-manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start allocates a new running session and schedules its step runner,
// returning the session id immediately. Two starts with the same query are
// independent sessions; there is deliberately no deduplication.
func (m *Manager) Start(query, kind string) string {
	s := &session{
		id:          uuid.NewString(),
		status:      StatusRunning,
		currentStep: "Initializing analysis...",
		query:       query,
		kind:        kind,
		startTime:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	observability.AnalysisStarted()
	m.logger.Info().Str("analysis_id", s.id).Str("kind", kind).Msg("Analysis started")

	m.wg.Add(1)
	go m.run(s.id)

	return s.id
}

// Status returns the poll snapshot for a session.
func (m *Manager) Status(id string) (StatusView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return StatusView{}, ErrSessionNotFound
	}
	return StatusView{
		ID:                 s.id,
		Status:             s.status,
		Progress:           s.progress,
		CurrentStep:        s.currentStep,
		EstimatedRemaining: s.estimatedRemaining,
	}, nil
}

// Results returns the full output of a completed session.
func (m *Manager) Results(id string) (ResultsView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return ResultsView{}, ErrSessionNotFound
	}
	if s.status != StatusCompleted {
		return ResultsView{}, ErrSessionNotReady
	}

	insights := make([]Insight, len(s.insights))
	copy(insights, s.insights)

	return ResultsView{
		ID:                  s.id,
		Query:               s.query,
		Insights:            insights,
		CompletionTime:      s.completionTime,
		TotalProcessingTime: s.totalProcessing,
	}, nil
}

// ErrorMessage returns the recorded fault for a session in error state.
func (m *Manager) ErrorMessage(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.errorMessage, nil
}

// Sweep deletes terminal sessions that reached their end state more than
// ttl ago and returns how many were removed. Running sessions are never
// touched.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.status == StatusRunning {
			continue
		}
		endedAt := s.completionTime
		if endedAt.IsZero() {
			endedAt = s.startTime
		}
		if endedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Close waits for every in-flight step runner to finish. There is no
// cancellation for a started session; it runs to completion or error.
func (m *Manager) Close() {
	m.wg.Wait()
	m.logger.Info().Msg("Analysis manager closed")
}

// run is the step runner for one session. It is the only writer to the
// session after creation. Any step error or panic moves the session to
// error state; progress stays wherever it was.
func (m *Manager) run(id string) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			m.fail(id, fmt.Sprintf("step runner panic: %v", r))
		}
	}()

	ctx := context.Background()
	query := m.query(id)

	for i, step := range m.steps {
		m.beginStep(id, i, step.Title)

		start := time.Now()
		time.Sleep(m.stepDelay)
		out, err := step.Run(ctx, query)
		observability.RecordStepDuration(step.Title, time.Since(start))

		if err != nil {
			m.fail(id, err.Error())
			return
		}
		m.appendInsight(id, i, step.Title, out)
	}

	m.complete(id)
}

func (m *Manager) query(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s.query
	}
	return ""
}

func (m *Manager) beginStep(id string, index int, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.status != StatusRunning {
		return
	}
	total := len(m.steps)
	s.currentStep = "Running: " + title
	s.progress = index * 100 / total
	s.estimatedRemaining = (total - index) * int(m.stepEstimate.Seconds())
}

func (m *Manager) appendInsight(id string, index int, title string, out StepOutput) {
	insight := Insight{
		ID:              index + 1,
		Title:           title,
		Content:         out.Content,
		Confidence:      0.85 + float64(index)*0.02,
		DataSources:     out.DataSources,
		Recommendations: out.Recommendations,
	}
	if len(insight.DataSources) == 0 {
		insight.DataSources = append([]string(nil), defaultDataSources...)
	}
	if len(insight.Recommendations) == 0 {
		insight.Recommendations = []string{
			fmt.Sprintf("Recommendation 1: optimization plan targeting %s", title),
			fmt.Sprintf("Recommendation 2: optimization plan targeting %s", title),
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.status != StatusRunning {
		return
	}
	s.insights = append(s.insights, insight)
}

func (m *Manager) complete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.status != StatusRunning {
		return
	}
	s.status = StatusCompleted
	s.progress = 100
	s.currentStep = "Analysis complete"
	s.estimatedRemaining = 0
	s.completionTime = time.Now()
	s.totalProcessing = s.completionTime.Sub(s.startTime).Seconds()

	observability.AnalysisFinished(string(StatusCompleted))
	m.logger.Info().
		Str("analysis_id", id).
		Float64("elapsed_seconds", s.totalProcessing).
		Msg("Analysis completed")
}

func (m *Manager) fail(id, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.status != StatusRunning {
		return
	}
	s.status = StatusError
	s.errorMessage = message
	s.completionTime = time.Now()

	observability.AnalysisFinished(string(StatusError))
	m.logger.Error().
		Str("analysis_id", id).
		Str("error", message).
		Msg("Analysis failed")
}
