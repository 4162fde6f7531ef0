// Package telemetry stores readings and anomalies and orchestrates
// batch ingestion through both detection engines.
//
// Ingest runs inside a single transaction: the batch is persisted,
// scored by the statistical baseline, then checked row by row against
// the sensor type's rule profile. Either engine may flag a row
// independently, so one input row can yield up to two anomaly records.
// Optional mirrors (time-series store, MQTT alerts) are fed after the
// transaction commits and never fail a request.
package telemetry
