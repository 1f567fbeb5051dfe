package config

import (
	"os"
	"strings"
)

const (
	SpoonacularKeyEnv = "SPOONACULAR_API_KEY"
	TableNameEnv      = "TABLE_NAME"
	TopicArnEnv       = "TOPIC_ARN"
	StateDirEnv       = "FRIDGESNAP_STATE_DIR"
	ExcludeFilterEnv  = "FRIDGESNAP_EXCLUDE_FILTER"
	LogLevelEnv       = "LOG_LEVEL"
	LogFormatEnv      = "LOG_FORMAT"
)

type Config struct {
	TableName     string
	TopicArn      string
	StateDir      string
	ExcludeFilter bool
	LogLevel      string
	LogFormat     string
}

func _getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// FromEnvironment reads the startup configuration. The Spoonacular key is not
// part of it; read it with SpoonacularKey on every call instead.
func FromEnvironment() Config {
	return Config{
		TableName:     os.Getenv(TableNameEnv),
		TopicArn:      os.Getenv(TopicArnEnv),
		StateDir:      _getenv(StateDirEnv, os.TempDir()),
		ExcludeFilter: strings.EqualFold(os.Getenv(ExcludeFilterEnv), "true"),
		LogLevel:      _getenv(LogLevelEnv, "info"),
		LogFormat:     _getenv(LogFormatEnv, "json"),
	}
}

func SpoonacularKey() string {
	return strings.TrimSpace(os.Getenv(SpoonacularKeyEnv))
}
