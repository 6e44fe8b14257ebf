// Package llm is the provider orchestration layer.
//
// It loads a declarative document describing providers, models and
// task-to-model assignments, lazily constructs one client per
// provider:model pair, routes each task type through an ordered fallback
// chain, and prices tasks against their primary candidate.
//
// The executor never surfaces a failure: a candidate without a usable
// credential is skipped, a call failure advances to the next candidate, and
// an exhausted chain degrades to a deterministic mock response tagged with
// provider "mock". Callers can always render what they get back.
package llm
