package llm

// ResolveCandidates maps a task type to the ordered fallback chain that will
// service it.
//
// In development mode with an override configured, every task routes to the
// override candidate alone. Otherwise the task's assignment yields
// [primary] plus [fallback] when fallback execution is globally enabled; a
// task with no assignment gets the global default candidate.
func ResolveCandidates(cfg *Config, devMode bool, task TaskType) []Candidate {
	if devMode {
		if o := cfg.devOverride(); o != nil {
			return []Candidate{*o}
		}
	}

	assignment, ok := cfg.Assignment(task)
	if !ok || assignment.Primary == nil {
		return []Candidate{cfg.DefaultCandidate()}
	}

	candidates := []Candidate{*assignment.Primary}
	if cfg.Settings.FallbackOn() && assignment.Fallback != nil {
		candidates = append(candidates, *assignment.Fallback)
	}
	return candidates
}

// PrimaryCandidate returns the primary candidate configured for a task, or
// false when the task has no assignment. Used for pricing, which never
// considers fallbacks or development overrides.
func PrimaryCandidate(cfg *Config, task TaskType) (Candidate, bool) {
	assignment, ok := cfg.Assignment(task)
	if !ok || assignment.Primary == nil {
		return Candidate{}, false
	}
	return *assignment.Primary, true
}
