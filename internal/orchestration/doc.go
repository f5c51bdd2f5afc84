// Package orchestration fetches and counts documents concurrently. A Worker
// processes one document under a deadline and reports a tagged Outcome; the
// Orchestrator fans out one Worker per reference and collects every Outcome
// in input order. Presentation is decoupled via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
