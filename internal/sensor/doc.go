// Package sensor manages the registry of telemetry sources.
//
// Every sensor belongs to exactly one user account and carries a type
// (meter, phase, or plug) that selects the rule profile applied to its
// readings and the prevention advice attached to its anomalies. All
// lookups are scoped to the owning user; a sensor owned by somebody
// else is indistinguishable from one that does not exist.
package sensor
