package config

type Config struct {
	DatabaseDSN   string
	MigrationDir  string
	HTTPAddr      string
	KafkaHost     string
	LowStockTopic string
	Engine        EngineConfig
}

// EngineConfig carries the order-engine policy knobs. NegativeTotalPolicy
// decides what happens when discount exceeds subtotal plus tax: "reject"
// fails the order, "clamp" floors the total at zero.
type EngineConfig struct {
	NegativeTotalPolicy string
	ConflictRetries     int
}

var DefaultConfig = Config{
	DatabaseDSN:   "root:1@tcp(localhost:3306)/backoffice?parseTime=true",
	MigrationDir:  "migration",
	HTTPAddr:      ":8080",
	KafkaHost:     "localhost:29092",
	LowStockTopic: "LOW_STOCK_TOPIC",
	Engine: EngineConfig{
		NegativeTotalPolicy: "reject",
		ConflictRetries:     1,
	},
}
