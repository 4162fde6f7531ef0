// Package influxdb mirrors telemetry into an InfluxDB v2 bucket for
// dashboards and long-range queries.
//
// The mirror is optional: when disabled in configuration, Connect
// returns ErrDisabled and the rest of the system carries a nil client
// and writes nothing. Writes are non-blocking; points are batched and
// flushed asynchronously, and write failures are delivered through the
// error callback rather than to callers.
package influxdb
