package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr        string
	MaxBodySize int64
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("FFBOT_ADDR"),
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum accepted webhook payload size in bytes",
			Value:       25 << 20,
			Destination: &c.MaxBodySize,
			Sources:     cli.EnvVars("FFBOT_MAX_BODY_SIZE"),
		},
	}
}
