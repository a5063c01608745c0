// Package runstore persists batch run history in SQLite: one row per run plus
// one row per job invocation. The pipeline runner writes records as jobs
// complete; the history and show commands read them back.
package runstore
