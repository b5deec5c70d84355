package observability

// Metric name prefixes
const (
	MetricPrefix = "luckydraw"
)

// Metric names
const (
	// Draw engine metrics
	DrawsTotal         = MetricPrefix + ".draws.total"
	DrawConflictsTotal = MetricPrefix + ".draw.conflicts.total"
	DrawDuration       = MetricPrefix + ".draw.duration"
	DrawAttempts       = MetricPrefix + ".draw.attempts"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
	NATSPublishErrorsTotal     = MetricPrefix + ".nats.publish_errors_total"
)

// Label keys
const (
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
)
