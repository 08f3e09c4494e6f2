// Package orchestrator wires props → form model → transformer → theme →
// renderer into a single call for consumers that prefer one entry point.
package orchestrator
