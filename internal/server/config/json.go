package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/together/internal/flagx"
	"github.com/dmitrijs2005/together/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so "24h" and integer nanoseconds are both accepted.
// Fields left out of the file keep their current values.
type JsonConfig struct {
	EndpointAddrGRPC               string         `json:"endpoint_addr_grpc"`
	MetricsAddr                    string         `json:"metrics_addr"`
	DatabaseDSN                    string         `json:"database_dsn"`
	SecretKey                      string         `json:"secret_key"`
	AccessTokenValidityDuration    timex.Duration `json:"access_token_validity_duration"`
	ActivationCodeValidityDuration timex.Duration `json:"activation_code_validity_duration"`
	LogLevel                       string         `json:"log_level"`
}

// parseJson loads configuration values from the file named by -c/-config.
// Nothing happens when no file is given. An unreadable file or invalid JSON
// panics: the process cannot start with a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ActivationCodeValidityDuration.Duration > 0 {
		config.ActivationCodeValidityDuration = c.ActivationCodeValidityDuration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
