package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
)

// parseFlags applies the short command-line flags:
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-g string   gRPC health bind address
//	-m string   store mode: memory | postgres
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-f string   YAML seed file
//	-l string   log level
//
// Only these flags are read from args, so -c/-config and anything unknown
// pass through untouched.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-m", "-d", "-s", "-t", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.StoreMode, "m", config.StoreMode, "user store: memory or postgres")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SeedFile, "f", config.SeedFile, "seed file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
		}
	})
	return nil
}
