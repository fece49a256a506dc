// Package config loads the node's bootstrap configuration: the
// non-consensus-critical knobs every replica may set independently
// (listen address, peer list, hex keypair seed, log level). Protocol
// constants that every node must agree on bit-for-bit live in
// internal/params instead, as plain Go constants, never as configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved bootstrap configuration for one empower1d
// process.
type Config struct {
	// ListenAddr is the address the HTTP/websocket transport binds to.
	ListenAddr string

	// Peers lists peer base URLs. At startup each is asked in turn for a
	// state snapshot; the list is then handed to the node. No outbound
	// gossip connection is dialed to them.
	Peers []string

	// GenesisSeedHex is the hex-encoded 32-byte Ed25519 seed for this
	// node's signing keypair. In production this should come from a
	// protected file, not a flag; the seed is still accepted inline for
	// local development and tests.
	GenesisSeedHex string

	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		ListenAddr: ":7856",
		LogLevel:   "info",
	}
}

// Load resolves configuration from (in ascending precedence) defaults,
// a config file, environment variables prefixed EMPOWER1_, and explicit
// overrides already bound onto v by the caller (typically cobra flags
// via BindPFlag). configPath may be empty to skip the file source.
func Load(v *viper.Viper, configPath string) (Config, error) {
	d := Defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix("EMPOWER1")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	return Config{
		ListenAddr:     v.GetString("listen_addr"),
		Peers:          v.GetStringSlice("peers"),
		GenesisSeedHex: v.GetString("genesis_seed"),
		LogLevel:       v.GetString("log_level"),
	}, nil
}
