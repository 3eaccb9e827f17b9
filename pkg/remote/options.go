// Package remote is the network side of the applet: it binds the listener that
// lichess connects to and describes how to register it as an external engine.
package remote

import (
	"errors"
	"fmt"
	"runtime"
)

// DefaultBind is the listen address used when none is configured.
const DefaultBind = "localhost:9670"

// ErrInvalidOptions is returned by MakeServer for unusable options.
var ErrInvalidOptions = errors.New("invalid options")

// Options configures MakeServer.
type Options struct {
	Engine            string   `mapstructure:"engine"`             // path or name of the UCI engine binary
	Bind              string   `mapstructure:"bind"`               // listen address
	PublishAddr       string   `mapstructure:"publish_addr"`       // address advertised in the registration url
	Secret            string   `mapstructure:"secret"`             // generated when empty
	Name              string   `mapstructure:"name"`               // engine name shown by lichess
	MaxThreads        int      `mapstructure:"max_threads"`        // advertised thread limit
	MaxHash           int      `mapstructure:"max_hash"`           // advertised hash limit in MiB
	Variants          []string `mapstructure:"variants"`           // supported variants, empty for chess only
	OfficialStockfish bool     `mapstructure:"official_stockfish"` // engine is an official stockfish build
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Bind:       DefaultBind,
		Name:       "remote-uci",
		MaxThreads: runtime.NumCPU(),
		MaxHash:    512,
	}
}

func (o Options) validate() error {
	switch {
	case o.Engine == "":
		return fmt.Errorf("%w: engine is required", ErrInvalidOptions)
	case o.Bind == "":
		return fmt.Errorf("%w: bind address is required", ErrInvalidOptions)
	case o.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidOptions)
	case o.MaxThreads < 1:
		return fmt.Errorf("%w: max threads must be positive, got %d", ErrInvalidOptions, o.MaxThreads)
	case o.MaxHash < 1:
		return fmt.Errorf("%w: max hash must be positive, got %d", ErrInvalidOptions, o.MaxHash)
	}
	return nil
}
