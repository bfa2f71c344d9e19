// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"clamshell/internal/config"
	"clamshell/internal/shell"
	"clamshell/internal/sshserver"
)

// shellRunner builds a fresh session per SSH connection over the shared
// persistent state. The session writer is the SSH channel itself.
type shellRunner struct {
	state *shellState
}

func (r *shellRunner) Run(ctx context.Context, rw io.ReadWriter) error {
	session := shell.NewSession(r.state.store, r.state.env, r.state.history, r.state.settings, rw, r.state.logger)
	return session.Run(ctx, rw)
}

// serveCmd exposes the shell over SSH.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the shell over SSH",
	Long: `Serve starts an SSH listener and runs one shell session per accepted
connection. All connections share the same persistent state, so a folder
created in one session is visible in the next.

The listen address comes from the [serve] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := openShellState(cmd.Context())
		if err != nil {
			return err
		}

		hostKeyPath := state.cfg.Serve.HostKeyPath
		if hostKeyPath == "" {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			hostKeyPath = filepath.Join(cfgDir, "host_key")
		}

		srv := sshserver.New(sshserver.Config{
			Host:        state.cfg.Serve.Host,
			Port:        state.cfg.Serve.Port,
			HostKeyPath: hostKeyPath,
			Factory: func() (sshserver.Runner, error) {
				return &shellRunner{state: state}, nil
			},
		})

		if err := srv.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start SSH server: %w", err)
		}
		fmt.Fprintln(os.Stdout, SuccessStyle.Render("Listening on ")+srv.Address())

		// Run until interrupted or the server fails on its own.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stdout, SubtitleStyle.Render("Shutting down"))
			return srv.Stop()
		case err, ok := <-srv.Err():
			if ok && err != nil {
				_ = srv.Stop()
				return fmt.Errorf("SSH server failed: %w", err)
			}
			return nil
		}
	},
}
