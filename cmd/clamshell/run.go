// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clamshell/internal/shell"
)

// runCmd executes a host-side script file against the persistent shell state.
// Lines run in strict mode: no alias expansion, no PATH search, and the first
// failing line aborts the script.
var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "Run a script file against the shell state",
	Long: `Run executes a script file from the host filesystem line by line
through the shell dispatcher. Execution is strict: aliases are not
expanded, the PATH is not searched, and the script stops at the first
failing line.

Changes the script makes (folders, files, environment) are persisted
exactly as if they had been typed interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}

		state, err := openShellState(cmd.Context())
		if err != nil {
			return err
		}

		session := shell.NewSession(state.store, state.env, state.history, state.settings, os.Stdout, state.logger)
		res := session.Dispatcher().RunScript(cmd.Context(), session, filepath.Base(args[0]), string(content))
		if !res.OK {
			return &ExitError{Code: 1, Err: res.Err}
		}
		return nil
	},
}
