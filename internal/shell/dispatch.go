// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"clamshell/internal/cmdline"
	"clamshell/internal/vfs"
)

// Mode selects the dispatch rule set for one input line.
type Mode int

const (
	// Lenient is the interactive mode: aliases expand and unknown commands
	// fall back to a PATH script search.
	Lenient Mode = iota
	// Strict is the script-file mode: no alias expansion, no PATH search.
	Strict
)

// maxAliasDepth bounds chained alias expansion. Together with the visited
// set it guarantees termination on cyclic aliases; a cycle stops expanding
// silently instead of erroring.
const maxAliasDepth = 10

type (
	// Result is the dispatch outcome surfaced to callers. ShouldContinue
	// false terminates the interactive session loop (the exit built-in).
	Result struct {
		Handled        bool
		ShouldContinue bool
		OK             bool
		Err            error
	}

	// Builtin is one registered command handler. Handlers print their own
	// user-facing output through the session and report success in the
	// Result; store errors never escape to terminate the session.
	Builtin struct {
		Name    string
		Summary string
		Usage   string
		Run     func(ctx context.Context, s *Session, args []string) Result
	}

	// PrefixHandler recognizes commands by shape rather than exact name.
	// It reports handled=false to pass the command on. Prefix handlers run
	// before exact-name lookup.
	PrefixHandler func(ctx context.Context, s *Session, command string, args []string) (Result, bool)

	// Dispatcher resolves a tokenized command to a built-in, an alias
	// expansion, an explicit or PATH-resolved script, or "not found".
	Dispatcher struct {
		store    *vfs.Store
		env      *Environment
		logger   *log.Logger
		builtins map[string]*Builtin
		prefixes []PrefixHandler
	}
)

func resultOK() Result {
	return Result{Handled: true, ShouldContinue: true, OK: true}
}

func resultFail(err error) Result {
	return Result{Handled: true, ShouldContinue: true, OK: false, Err: err}
}

func resultUnhandled() Result {
	return Result{Handled: false, ShouldContinue: true}
}

// NewDispatcher builds a dispatcher with the standard built-in set and the
// explicit-script prefix rule registered.
func NewDispatcher(store *vfs.Store, env *Environment, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	d := &Dispatcher{
		store:    store,
		env:      env,
		logger:   logger.WithPrefix("dispatch"),
		builtins: make(map[string]*Builtin),
	}
	d.prefixes = append(d.prefixes, explicitScriptHandler)
	registerBuiltins(d)
	return d
}

// Register adds a built-in under its lowercased name.
func (d *Dispatcher) Register(b *Builtin) {
	d.builtins[strings.ToLower(b.Name)] = b
}

// BuiltinNames returns the registered command names in sorted order.
func (d *Dispatcher) BuiltinNames() []string {
	names := maps.Keys(d.builtins)
	slices.Sort(names)
	return names
}

// Lookup returns the built-in registered under name, case-insensitively.
func (d *Dispatcher) Lookup(name string) (*Builtin, bool) {
	b, ok := d.builtins[strings.ToLower(name)]
	return b, ok
}

// isComment reports whether a line is a full-line comment.
func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

// Dispatch runs one input line. Blank and comment lines are no-ops.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, line string, mode Mode) Result {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isComment(trimmed) {
		return resultOK()
	}

	command, args := cmdline.ParseCommandLine(line)
	if command == "" {
		return resultOK()
	}
	// The script's self-reported invocation name stays the original typed
	// token even after alias expansion.
	original := command

	if mode == Lenient {
		command, args = d.expandAliases(command, args)
	}

	for _, prefix := range d.prefixes {
		if res, handled := prefix(ctx, s, command, args); handled {
			return res
		}
	}

	if b, ok := d.Lookup(command); ok {
		d.logger.Debug("builtin", "command", b.Name)
		return b.Run(ctx, s, args)
	}

	if mode == Lenient {
		if res, handled := d.dispatchPathScript(ctx, s, command, original); handled {
			return res
		}
	}

	d.logger.Debug("command not found", "command", command)
	return resultUnhandled()
}

// expandAliases repeatedly substitutes the command token through the alias
// table. The expansion string is re-tokenized; its first token becomes the
// new command and the rest prepend to the original arguments.
func (d *Dispatcher) expandAliases(command string, args []string) (string, []string) {
	visited := make(map[string]bool)
	for depth := 0; depth < maxAliasDepth; depth++ {
		expansion, ok := d.env.Alias(command)
		if !ok || visited[command] {
			break
		}
		visited[command] = true
		head, rest := cmdline.ParseCommandLine(expansion)
		if head == "" {
			break
		}
		d.logger.Debug("alias expanded", "from", command, "to", expansion)
		command = head
		args = append(rest, args...)
	}
	return command, args
}

// dispatchPathScript searches each PATH directory in order for a script
// named after the command. Unreadable directories are skipped silently.
func (d *Dispatcher) dispatchPathScript(ctx context.Context, s *Session, command, invocation string) (Result, bool) {
	for _, dir := range d.env.PathDirs() {
		scriptPath := strings.TrimSuffix(dir, vfs.Separator) + vfs.Separator + command + ScriptExt
		content, err := d.store.ReadFile(scriptPath)
		if err != nil {
			continue
		}
		d.logger.Debug("path script", "path", scriptPath, "invocation", invocation)
		return d.RunScript(ctx, s, invocation, content), true
	}
	return Result{}, false
}
