// Package core implements the plot-data pipeline: column validation,
// coverage and threshold filtering, adaptive sampling, and the assembler
// that orchestrates them into ready-to-render series.
//
// Every stage is a pure transform over an owned Dataset; the stages never
// mutate their input, so a cached dataset can feed several plot types
// concurrently without locking.
package core
