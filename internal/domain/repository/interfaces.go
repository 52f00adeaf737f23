package repository

// Metrics records pipeline and endpoint telemetry.
type Metrics interface {
	RecordRequest(endpoint, outcome string)
	RecordError(kind string)
	RecordRows(endpoint string, n int)
	RecordLatency(op string, seconds float64)
}
