package kafka

// Kafka topics
const (
	TopicStorefrontActivity = "storefront-activity"
)

// Header keys set on every published record
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)
