// Package serial provides the physical UART connection between the at
// package and the modem, wrapping github.com/tarm/serial with the
// functional-options configuration used throughout this driver.
package serial

import (
	tserial "github.com/tarm/serial"
)

// Config holds the parameters used to open the port.
type Config struct {
	port string
	baud int
}

// Option modifies the Config used by New.
type Option func(*Config)

// WithPort overrides the default serial device path.
func WithPort(port string) Option {
	return func(c *Config) {
		c.port = port
	}
}

// WithBaud overrides the default baud rate.
func WithBaud(baud int) Option {
	return func(c *Config) {
		c.baud = baud
	}
}

// New opens the serial port, applying opts over the platform default
// (e.g. /dev/ttyUSB0 at 115200 baud on Linux).
func New(opts ...Option) (*tserial.Port, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return tserial.OpenPort(&tserial.Config{Name: cfg.port, Baud: cfg.baud})
}
