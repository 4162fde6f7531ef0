// Package api provides the HTTP REST API for VoltGuard Core.
//
// It exposes authentication, sensor management, telemetry ingestion,
// anomaly listing, room aggregation, model training and diagnostics
// endpoints to dashboards and tooling.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Responses use a uniform envelope: successes carry {"ok":true,...}
// and failures {"ok":false,"error":"<code>"}. Error codes are short
// stable strings the frontend switches on, never prose.
//
// Thread Safety: all methods are safe for concurrent use.
package api
