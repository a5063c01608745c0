// Package services defines shared utilities consumed by the pipeline runner
// and the command-line surface.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and job names for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across job invocations.
//
// Use these helpers when wiring new orchestration logic so operational
// behaviour (error handling, observability) stays uniform across the repo.
package services
