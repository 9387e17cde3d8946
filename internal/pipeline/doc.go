// Package pipeline wires the loader, the analysis and the report writers into
// one batch run: read, load, partition and summarize, pay change, build
// reports, write. Every stage runs inside its own trace span and all log
// lines carry the run's trace id.
package pipeline
