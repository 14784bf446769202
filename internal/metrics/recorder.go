package metrics

// Recorder records application metrics. Implementations: Metrics
// (Prometheus-backed) and NoopMetrics (metrics disabled, zero overhead).
type Recorder interface {
	// RecordTokenIssued records an access/refresh pair being minted.
	// grantType: password, refresh_token
	RecordTokenIssued(grantType string)

	// RecordTokenValidation records a bearer token validation.
	// result: valid, unknown, expired
	RecordTokenValidation(result string)

	// RecordGrantAttempt records a token endpoint request outcome.
	// grantType: password, refresh_token, unsupported
	RecordGrantAttempt(grantType string, success bool)

	// SetActiveTokensCount sets the current size of a token table.
	// tokenType: access, refresh
	SetActiveTokensCount(tokenType string, count int)
}
