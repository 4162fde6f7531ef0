// Package detector implements the two anomaly-detection engines.
//
// The statistical engine (Baseline) scores a batch of three-channel
// readings against a fitted reference distribution; rows whose score
// exceeds a cutoff fixed at fit time are flagged as outliers. The rule
// engine (Evaluate) applies per-sensor-type thresholds to individual
// rows. The two engines are independent: a single row may be flagged by
// neither, either, or both, and each flag produces its own anomaly
// record.
//
// Baseline is safe for concurrent use. Scoring takes a read lock;
// refitting takes the write lock, so in-flight scoring always observes
// one consistent model version.
package detector
