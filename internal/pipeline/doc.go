// Package pipeline executes declarative enrichment plans. A plan is an
// ordered list of job descriptors; each job invokes one external bot script
// and may read or produce a shared artifact file in the work directory. The
// runner derives execution order, artifact cleanup positions, and preflight
// script requirements from the descriptors rather than from hardcoded steps.
package pipeline
