// Package analysis tracks long-running insight jobs as pollable sessions.
//
// A session is created in the running state and driven by its own step
// runner goroutine through a fixed six-step pipeline. Progress is
// monotonically non-decreasing, insights are appended strictly in step
// order, and the session ends in exactly one of two terminal states:
// completed (progress 100) or error (progress frozen, fault recorded).
// Readers only ever see copies; the runner is the session's sole writer.
package analysis
