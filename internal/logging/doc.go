// Package logging builds slog loggers for wikibatch with console and JSON
// handlers, multi-writer output (stdout plus log file), and context-derived
// attributes carrying the run identifier and job name.
package logging
