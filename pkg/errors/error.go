package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// ConfigLoadError represents an error when loading configuration from the environment.
	ConfigLoadError ErrorCode = "config_load_error"

	// OrderEventDecodeError represents an error when decoding an inbound order event payload.
	OrderEventDecodeError ErrorCode = "order_event_decode_error"
	// OrderEventInvalidError represents an error when an order event carries invalid fields.
	OrderEventInvalidError ErrorCode = "order_event_invalid_error"

	// KafkaReadError represents an error when reading a message from Kafka.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaCommitError represents an error when committing message offsets to Kafka.
	KafkaCommitError ErrorCode = "kafka_commit_error"
	// KafkaPublishError represents an error when publishing a message to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"
	// KafkaCloseError represents an error when closing a Kafka reader or writer.
	KafkaCloseError ErrorCode = "kafka_close_error"

	// SnapshotMarshalError represents an error when marshaling a book snapshot.
	SnapshotMarshalError ErrorCode = "snapshot_marshal_error"
	// SnapshotUnmarshalError represents an error when unmarshaling a book snapshot.
	SnapshotUnmarshalError ErrorCode = "snapshot_unmarshal_error"

	// MarketDataConfigError represents an error when the market data client configuration is invalid.
	MarketDataConfigError ErrorCode = "marketdata_config_error"
	// MarketDataRequestError represents an error when a market data request could not be performed.
	MarketDataRequestError ErrorCode = "marketdata_request_error"
	// MarketDataStatusError represents an error when the venue answers with a non-success status.
	MarketDataStatusError ErrorCode = "marketdata_status_error"
	// MarketDataDecodeError represents an error when decoding a venue response body.
	MarketDataDecodeError ErrorCode = "marketdata_decode_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisSubscribeError represents an error when subscribing to channels in Redis.
	RedisSubscribeError ErrorCode = "redis_subscribe_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates a critical error that requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates a high severity error that should be addressed promptly.
	SeverityHigh Severity = "high"
	// SeverityMedium indicates a medium severity error that should be addressed in due course.
	SeverityMedium Severity = "medium"
	// SeverityLow indicates a low severity error that can be addressed at a later time.
	SeverityLow Severity = "low"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryNetwork indicates an error related to network operations.
	CategoryNetwork Category = "network"
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryBusinessLogic indicates an error related to business logic processing.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryExternal indicates an error related to external services or APIs.
	CategoryExternal Category = "external"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)
