// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"clamshell/internal/cmdline"
	"clamshell/internal/term"
	"clamshell/internal/vfs"
)

// complState is the completion engine's explicit finite state machine.
type complState int

const (
	complIdle complState = iota
	complProposing
)

type (
	candidate struct {
		// value is the full replacement word (directory part included,
		// folders carrying a trailing separator).
		value string
		// display is the short form shown in the candidate list.
		display string
		folder  bool
	}

	// Completer lists candidate commands or path entries for partial input
	// and cycles through ambiguous matches on repeated requests. A session
	// survives only exact repetitions of its own proposal; any other input
	// or keystroke discards it.
	Completer struct {
		store      *vfs.Store
		env        *Environment
		dispatcher *Dispatcher
		logger     *log.Logger

		state      complState
		candidates []candidate
		index      int
		head       string
		quote      rune
		proposed   string
	}
)

// NewCompleter wires a completion engine to the store, the environment's
// PATH, and the dispatcher's built-in registry.
func NewCompleter(store *vfs.Store, env *Environment, dispatcher *Dispatcher, logger *log.Logger) *Completer {
	if logger == nil {
		logger = log.Default()
	}
	return &Completer{
		store:      store,
		env:        env,
		dispatcher: dispatcher,
		logger:     logger.WithPrefix("complete"),
	}
}

// Invalidate discards any cycling session. The editor calls this on every
// keystroke that is not a completion request.
func (c *Completer) Invalidate() {
	c.state = complIdle
	c.candidates = nil
	c.index = 0
	c.proposed = ""
}

// Complete serves one completion request against the current input line.
func (c *Completer) Complete(line string, backward bool) term.CompletionResult {
	if c.state == complProposing && line == c.proposed {
		delta := 1
		if backward {
			delta = -1
		}
		c.index = (c.index + delta + len(c.candidates)) % len(c.candidates)
		return c.propose()
	}
	c.Invalidate()
	return c.fresh(line)
}

// fresh opens a new request: locate the current word, pick the candidate
// set, and commit, signal no-match, or open a cycling session.
func (c *Completer) fresh(line string) term.CompletionResult {
	scan := cmdline.Tokenize(line)

	var word cmdline.Token
	commandPos := false
	switch {
	case len(scan.Tokens) == 0:
		word = cmdline.Token{RawStart: len(line), RawEnd: len(line)}
		commandPos = true
	case scan.EndsWithSpace:
		word = cmdline.Token{RawStart: len(line), RawEnd: len(line)}
	default:
		word = scan.Tokens[len(scan.Tokens)-1]
		commandPos = len(scan.Tokens) == 1
	}

	c.head = line[:word.RawStart]
	c.quote = 0
	if word.HadQuotes {
		c.quote = word.QuoteChar
	}

	if commandPos && !strings.HasPrefix(word.Value, explicitPrefix) {
		c.candidates = c.commandCandidates(word.Value)
	} else {
		var ok bool
		c.candidates, ok = c.pathCandidates(word.Value)
		if !ok {
			return term.CompletionResult{NoMatch: true}
		}
	}

	switch len(c.candidates) {
	case 0:
		c.candidates = nil
		return term.CompletionResult{NoMatch: true}
	case 1:
		return c.commit(c.candidates[0])
	default:
		c.state = complProposing
		c.index = 0
		return c.propose()
	}
}

// commit closes the session with the single match, appending the trailing
// separator that lets the user keep typing: a space after commands and
// files, the path separator already carried by folder values.
func (c *Completer) commit(match candidate) term.CompletionResult {
	replacement := cmdline.QuoteArgIfNeeded(match.value, c.quote)
	if !match.folder {
		replacement += " "
	}
	line := c.head + replacement
	c.Invalidate()
	return term.CompletionResult{Line: line}
}

// propose rewrites the input with the active candidate and returns the full
// candidate list for display.
func (c *Completer) propose() term.CompletionResult {
	match := c.candidates[c.index]
	c.proposed = c.head + cmdline.QuoteArgIfNeeded(match.value, c.quote)
	displays := make([]string, len(c.candidates))
	for i, cand := range c.candidates {
		displays[i] = cand.display
	}
	return term.CompletionResult{
		Line:        c.proposed,
		Candidates:  displays,
		ActiveIndex: c.index,
	}
}

// commandCandidates is the command-position set: built-in names plus
// extension-stripped script names from every PATH directory.
func (c *Completer) commandCandidates(prefix string) []candidate {
	seen := make(map[string]bool)
	var names []string
	for _, name := range c.dispatcher.BuiltinNames() {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, dir := range c.env.PathDirs() {
		_, files, err := c.store.List(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if !strings.HasSuffix(f, ScriptExt) {
				continue
			}
			name := strings.TrimSuffix(f, ScriptExt)
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	out := make([]candidate, len(names))
	for i, name := range names {
		out[i] = candidate{value: name, display: name}
	}
	return out
}

// pathCandidates splits the word into a directory part and a name prefix
// and lists the directory. The second return value is false when the
// directory part does not resolve.
func (c *Completer) pathCandidates(word string) ([]candidate, bool) {
	dir, prefix := vfs.SplitEntry(word)
	folders, files, err := c.store.List(dir)
	if err != nil {
		return nil, false
	}
	var out []candidate
	for _, name := range folders {
		if strings.HasPrefix(name, prefix) {
			out = append(out, candidate{
				value:   dir + name + vfs.Separator,
				display: name + vfs.Separator,
				folder:  true,
			})
		}
	}
	for _, name := range files {
		if strings.HasPrefix(name, prefix) {
			out = append(out, candidate{value: dir + name, display: name})
		}
	}
	slices.SortFunc(out, func(a, b candidate) int {
		return strings.Compare(a.display, b.display)
	})
	return out, true
}
