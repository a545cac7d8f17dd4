package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-2048/internal/broadcast"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over SSH and spectators over HTTP",
	Long: `Start an SSH server where every connection gets its own menu and games,
and optionally an HTTP server where those games can be watched live.

Scores are shared by everyone connected to the server.

HTTP endpoints (with --http):
  GET /healthz               - Liveness
  GET /api/games             - Boards
  GET /api/sessions          - Games in progress
  GET /api/sessions/{id}     - One game in progress
  GET /api/scores/{board}    - Top scores (?limit=N)
  GET /ws/{id}               - WebSocket stream of a game's events

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, generates a key at ~/.t2048/host_key

Examples:
  t2048 serve                          # SSH on :23234
  t2048 serve --ssh :2222 --http :8080
  t2048 serve --ssh "" --http :8080    # HTTP only

Connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	def := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", def.Address, "SSH listen address (empty disables SSH)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP spectator listen address (empty disables HTTP)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", def.IdleTimeout, "Disconnect SSH sessions idle this long")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --http")
	}

	logger, closeLog, err := newLogger(os.Stderr, "t2048")
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	hub := broadcast.NewHub(t2048.BoardEvent{}.Kind())
	defer hub.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if flagSSHAddr != "" {
		srv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: flagIdleTimeout,
			TickRate:    flagFPS,
		}, store, hub, logger.WithPrefix("ssh"))
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		fmt.Printf("SSH:  ssh %s -p %s\n", "localhost", portOf(flagSSHAddr))
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}

	if flagHTTPAddr != "" {
		srv := web.New(hub, store, logger.WithPrefix("http"))
		fmt.Printf("HTTP: http://%s/api/sessions\n", displayAddr(flagHTTPAddr))
		g.Go(func() error { return srv.ListenAndServe(ctx, flagHTTPAddr) })
	}

	fmt.Println("Press Ctrl+C to stop")
	return g.Wait()
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
