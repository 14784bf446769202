package metrics

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordTokenIssued(grantType string)                {}
func (n *NoopMetrics) RecordTokenValidation(result string)               {}
func (n *NoopMetrics) RecordGrantAttempt(grantType string, success bool) {}
func (n *NoopMetrics) SetActiveTokensCount(tokenType string, count int)  {}
