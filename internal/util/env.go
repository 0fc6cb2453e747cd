package util

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env files into the process environment. Variables that
// are already set win. With no arguments only ./.env is read.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return ""
	}
	return value
}

func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	return value
}

func GetEnvNumeric(key string, defaultValue int) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return float64(defaultValue)
	}
	returnValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return float64(defaultValue)
	}

	return returnValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// GetEnvMinutes reads a whole number of minutes. Missing, malformed and
// non-positive values give defaultValue.
func GetEnvMinutes(key string, defaultValue time.Duration) time.Duration {
	n := GetEnvNumeric(key, -1)
	if n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * time.Minute
}

// GetEnvList splits a comma separated variable, trimming blanks.
func GetEnvList(key string) []string {
	return SplitList(GetEnv(key))
}

// SplitList splits s on commas and drops empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
