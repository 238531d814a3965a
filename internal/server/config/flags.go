package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/together/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (e.g., ":9090")
//	-d string   PostgreSQL DSN, or "memory"
//	-s string   token HMAC secret key
//	-t int      session token validity, minutes
//	-v int      activation code validity, minutes
//	-l string   log level
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-t", "-v", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	activationCodeValidity := fs.Int("v", int(config.ActivationCodeValidityDuration.Minutes()), "activation code validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.ActivationCodeValidityDuration = time.Duration(*activationCodeValidity) * time.Minute
}
