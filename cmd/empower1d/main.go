// Command empower1d runs a single proof-of-stake replica: the tick
// loop, the HTTP/websocket transport, and graceful shutdown on SIGINT/
// SIGTERM.
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/config"
	"empower1.com/empower1chain/internal/genesis"
	"empower1.com/empower1chain/internal/node"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "empower1d",
		Short: "Run an empower1 proof-of-stake replica",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "", "HTTP/websocket listen address (default :7856)")
	flags.StringSlice("peer", nil, "gossip peer URL, may be repeated")
	flags.String("genesis-seed", "", "hex-encoded 32-byte Ed25519 seed for this node's keypair")
	flags.String("log-level", "", "zerolog level (debug, info, warn, error)")
	flags.StringVar(&configPath, "config", "", "optional config file (yaml/json/toml, viper-compatible)")

	_ = v.BindPFlag("listen_addr", flags.Lookup("listen"))
	_ = v.BindPFlag("peers", flags.Lookup("peer"))
	_ = v.BindPFlag("genesis_seed", flags.Lookup("genesis-seed"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("empower1d: bad log level %q: %w", cfg.LogLevel, err)
	}
	log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	kp, err := keypairFromConfig(cfg)
	if err != nil {
		return err
	}

	head := bootstrapHead(cfg, log)
	n := node.New(kp, head, cfg.Peers, log)
	srv := transport.NewServer(n, log)

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Routes()}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(params.BlockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return shutdown(httpSrv, log)
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("caught signal, shutting down")
			return shutdown(httpSrv, log)
		case err := <-serveErr:
			return fmt.Errorf("empower1d: http server: %w", err)
		case tick := <-ticker.C:
			blocks, err := n.Tick(tick.UnixMilli())
			if err != nil {
				log.Error().Err(err).Msg("tick failed")
				continue
			}
			srv.BroadcastBlocks(blocks)
		}
	}
}

func shutdown(httpSrv *http.Server, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
		return err
	}
	log.Info().Msg("shut down gracefully")
	return nil
}

// bootstrapHead returns the Snap this node starts from: a peer's current
// state if one was configured and reachable, falling back to a fresh
// genesis otherwise. A joining node only needs one honest peer to catch
// up without replaying history it was never given.
func bootstrapHead(cfg config.Config, log zerolog.Logger) block.Snap {
	client := &http.Client{Timeout: 10 * time.Second}
	for _, peer := range cfg.Peers {
		snap, err := transport.FetchState(client, peer)
		if err != nil {
			log.Warn().Err(err).Str("peer", peer).Msg("state bootstrap from peer failed")
			continue
		}
		log.Info().Str("peer", peer).Msg("bootstrapped state from peer")
		return snap
	}
	return genesis.Build(time.Now().UnixMilli())
}

func keypairFromConfig(cfg config.Config) (signer.KeyPair, error) {
	if cfg.GenesisSeedHex == "" {
		return signer.Generate()
	}
	raw, err := hex.DecodeString(cfg.GenesisSeedHex)
	if err != nil || len(raw) != ed25519.SeedSize {
		return signer.KeyPair{}, fmt.Errorf("empower1d: genesis-seed must be %d hex bytes", ed25519.SeedSize)
	}
	var seed [ed25519.SeedSize]byte
	copy(seed[:], raw)
	return signer.FromSeed(seed), nil
}
