package config

import "io"

// SetOutput redirects log output of the configured logger
func (c *Logger) SetOutput(w io.Writer) {
	c.output = w
}
