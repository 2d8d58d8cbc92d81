package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -a, -g, -d and -i are looked at; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.HealthEndpointAddr, "g", cfg.HealthEndpointAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local session database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
