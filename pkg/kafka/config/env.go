package kafka_config

const (
	EnvKafkaBrokers                = "KAFKA_BROKERS"
	EnvKafkaNotificationsTopic     = "KAFKA_NOTIFICATIONS_TOPIC"
	EnvKafkaNotificationsDLQTopic  = "KAFKA_NOTIFICATIONS_DLQ_TOPIC"
	EnvKafkaProducerMaxAttempts    = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout   = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerWriteTimeout   = "KAFKA_PRODUCER_WRITE_TIMEOUT"
	EnvKafkaProducerRequireAcks    = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression    = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerPublishTimeout = "KAFKA_PRODUCER_PUBLISH_TIMEOUT"
)
