// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"clamshell/internal/vfs"
)

// registerBuiltins installs the standard command set. Handlers print their
// own output and never let a store error escape the session.
func registerBuiltins(d *Dispatcher) {
	for _, b := range []*Builtin{
		{Name: "help", Summary: "list available commands", Run: builtinHelp},
		{Name: "pwd", Summary: "print the current directory", Run: builtinPwd},
		{Name: "cd", Summary: "change the current directory", Usage: "cd [PATH]", Run: builtinCd},
		{Name: "ls", Summary: "list folder contents", Usage: "ls [PATH]", Run: builtinLs},
		{Name: "mkdir", Summary: "create a folder", Usage: "mkdir NAME...", Run: builtinMkdir},
		{Name: "rmdir", Summary: "remove an empty folder", Usage: "rmdir NAME...", Run: builtinRmdir},
		{Name: "touch", Summary: "create an empty file", Usage: "touch PATH...", Run: builtinTouch},
		{Name: "rm", Summary: "remove a file", Usage: "rm PATH...", Run: builtinRm},
		{Name: "cat", Summary: "print file contents", Usage: "cat PATH...", Run: builtinCat},
		{Name: "echo", Summary: "print arguments", Run: builtinEcho},
		{Name: "write", Summary: "write arguments to a file", Usage: "write PATH [TEXT...]", Run: builtinWrite},
		{Name: "mv", Summary: "move or rename a file", Usage: "mv SRC DST", Run: builtinMv},
		{Name: "cp", Summary: "copy a file", Usage: "cp SRC DST", Run: builtinCp},
		{Name: "alias", Summary: "list or define aliases", Usage: "alias [NAME [EXPANSION]]", Run: builtinAlias},
		{Name: "unalias", Summary: "remove an alias", Usage: "unalias NAME", Run: builtinUnalias},
		{Name: "path", Summary: "show or edit the script search path", Usage: "path [add|rm DIR]", Run: builtinPath},
		{Name: "history", Summary: "show input history", Usage: "history [-c]", Run: builtinHistory},
		{Name: "clear", Summary: "clear the screen", Run: builtinClear},
		{Name: "set", Summary: "show or change display settings", Usage: "set [KEY [VALUE]]", Run: builtinSet},
		{Name: "md", Summary: "render a markdown file", Usage: "md PATH", Run: builtinMd},
		{Name: "run", Summary: "run a command script", Usage: "run PATH", Run: builtinRun},
		{Name: "exit", Summary: "end the session", Run: builtinExit},
	} {
		d.Register(b)
	}
}

// fail prints the error and reports a failed-but-handled result.
func fail(s *Session, err error) Result {
	s.Errorf("%v", err)
	return resultFail(err)
}

func usageError(s *Session, b string) Result {
	err := fmt.Errorf("usage: %s", b)
	s.Errorf("%v", err)
	return resultFail(err)
}

func builtinHelp(_ context.Context, s *Session, _ []string) Result {
	for _, name := range s.dispatcher.BuiltinNames() {
		b, _ := s.dispatcher.Lookup(name)
		s.Printf("%-10s %s\n", b.Name, b.Summary)
	}
	return resultOK()
}

func builtinPwd(_ context.Context, s *Session, _ []string) Result {
	s.Println(s.store.CwdPath())
	return resultOK()
}

func builtinCd(_ context.Context, s *Session, args []string) Result {
	target := vfs.Separator
	if len(args) > 0 {
		target = args[0]
	}
	if err := s.store.ChangeDirectory(target); err != nil {
		return fail(s, err)
	}
	return resultOK()
}

func builtinLs(_ context.Context, s *Session, args []string) Result {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	folders, files, err := s.store.List(path)
	if err != nil {
		return fail(s, err)
	}
	slices.Sort(folders)
	slices.Sort(files)
	var entries []string
	for _, name := range folders {
		entries = append(entries, s.styles.Folder.Render(name+vfs.Separator))
	}
	entries = append(entries, files...)
	if len(entries) > 0 {
		s.Println(strings.Join(entries, "  "))
	}
	return resultOK()
}

func builtinMkdir(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "mkdir NAME...")
	}
	for _, name := range args {
		if err := s.store.Mkdir(name); err != nil {
			return fail(s, err)
		}
	}
	return resultOK()
}

func builtinRmdir(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "rmdir NAME...")
	}
	for _, name := range args {
		if err := s.store.Rmdir(name); err != nil {
			return fail(s, err)
		}
	}
	return resultOK()
}

func builtinTouch(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "touch PATH...")
	}
	for _, path := range args {
		switch s.store.Stat(path) {
		case vfs.KindFile:
			// Already there; touch succeeds silently.
		case vfs.KindFolder:
			return fail(s, &vfs.Error{Op: "touch", Path: path, Err: vfs.ErrAlreadyExists})
		default:
			if err := s.store.WriteFile(path, ""); err != nil {
				return fail(s, err)
			}
		}
	}
	return resultOK()
}

func builtinRm(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "rm PATH...")
	}
	for _, path := range args {
		if err := s.store.Unlink(path); err != nil {
			return fail(s, err)
		}
	}
	return resultOK()
}

func builtinCat(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "cat PATH...")
	}
	for _, path := range args {
		content, err := s.store.ReadFile(path)
		if err != nil {
			return fail(s, err)
		}
		s.Printf("%s", content)
		if !strings.HasSuffix(content, "\n") {
			s.Printf("\n")
		}
	}
	return resultOK()
}

func builtinEcho(_ context.Context, s *Session, args []string) Result {
	s.Println(strings.Join(args, " "))
	return resultOK()
}

func builtinWrite(_ context.Context, s *Session, args []string) Result {
	if len(args) == 0 {
		return usageError(s, "write PATH [TEXT...]")
	}
	if err := s.store.WriteFile(args[0], strings.Join(args[1:], " ")); err != nil {
		return fail(s, err)
	}
	return resultOK()
}

func builtinMv(_ context.Context, s *Session, args []string) Result {
	if len(args) != 2 {
		return usageError(s, "mv SRC DST")
	}
	if err := s.store.Move(args[0], args[1]); err != nil {
		return fail(s, err)
	}
	return resultOK()
}

func builtinCp(_ context.Context, s *Session, args []string) Result {
	if len(args) != 2 {
		return usageError(s, "cp SRC DST")
	}
	if err := s.store.Copy(args[0], args[1]); err != nil {
		return fail(s, err)
	}
	return resultOK()
}

func builtinAlias(_ context.Context, s *Session, args []string) Result {
	switch len(args) {
	case 0:
		for _, name := range s.env.AliasNames() {
			expansion, _ := s.env.Alias(name)
			s.Printf("%s='%s'\n", name, expansion)
		}
		return resultOK()
	case 1:
		expansion, ok := s.env.Alias(args[0])
		if !ok {
			return fail(s, fmt.Errorf("alias %s: not found", args[0]))
		}
		s.Printf("%s='%s'\n", args[0], expansion)
		return resultOK()
	case 2:
		if err := s.env.SetAlias(args[0], args[1]); err != nil {
			return fail(s, err)
		}
		return resultOK()
	default:
		return usageError(s, "alias [NAME [EXPANSION]]")
	}
}

func builtinUnalias(_ context.Context, s *Session, args []string) Result {
	if len(args) != 1 {
		return usageError(s, "unalias NAME")
	}
	removed, err := s.env.RemoveAlias(args[0])
	if err != nil {
		return fail(s, err)
	}
	if !removed {
		return fail(s, fmt.Errorf("unalias %s: not found", args[0]))
	}
	return resultOK()
}

func builtinPath(_ context.Context, s *Session, args []string) Result {
	switch {
	case len(args) == 0:
		for _, dir := range s.env.PathDirs() {
			s.Println(dir)
		}
		return resultOK()
	case len(args) == 2 && args[0] == "add":
		if err := s.env.AddPathDir(args[1]); err != nil {
			return fail(s, err)
		}
		return resultOK()
	case len(args) == 2 && args[0] == "rm":
		removed, err := s.env.RemovePathDir(args[1])
		if err != nil {
			return fail(s, err)
		}
		if !removed {
			return fail(s, fmt.Errorf("path rm %s: not in PATH", args[1]))
		}
		return resultOK()
	default:
		return usageError(s, "path [add|rm DIR]")
	}
}

func builtinHistory(_ context.Context, s *Session, args []string) Result {
	if len(args) == 1 && args[0] == "-c" {
		if err := s.history.Clear(); err != nil {
			return fail(s, err)
		}
		return resultOK()
	}
	if len(args) != 0 {
		return usageError(s, "history [-c]")
	}
	for i, line := range s.history.Lines() {
		s.Printf("%4d  %s\n", i+1, line)
	}
	return resultOK()
}

func builtinClear(_ context.Context, s *Session, _ []string) Result {
	s.Printf("\x1b[2J\x1b[H")
	return resultOK()
}

func builtinSet(_ context.Context, s *Session, args []string) Result {
	switch len(args) {
	case 0:
		for _, key := range s.settings.Keys() {
			value, _ := s.settings.Get(key)
			s.Printf("%s=%s\n", key, value)
		}
		return resultOK()
	case 1:
		value, ok := s.settings.Get(args[0])
		if !ok {
			return fail(s, fmt.Errorf("set %s: not set", args[0]))
		}
		s.Println(value)
		return resultOK()
	case 2:
		if err := s.settings.Set(args[0], args[1]); err != nil {
			return fail(s, err)
		}
		return resultOK()
	default:
		return usageError(s, "set [KEY [VALUE]]")
	}
}

func builtinMd(_ context.Context, s *Session, args []string) Result {
	if len(args) != 1 {
		return usageError(s, "md PATH")
	}
	content, err := s.store.ReadFile(args[0])
	if err != nil {
		return fail(s, err)
	}
	rendered, err := glamour.Render(content, s.settings.GetDefault(SettingColorScheme, "dark"))
	if err != nil {
		return fail(s, fmt.Errorf("md %s: %w", args[0], err))
	}
	s.Printf("%s", rendered)
	return resultOK()
}

func builtinRun(ctx context.Context, s *Session, args []string) Result {
	if len(args) != 1 {
		return usageError(s, "run PATH")
	}
	content, err := s.store.ReadFile(args[0])
	if err != nil {
		return fail(s, err)
	}
	return s.dispatcher.RunScript(ctx, s, args[0], content)
}

func builtinExit(_ context.Context, s *Session, _ []string) Result {
	return Result{Handled: true, ShouldContinue: false, OK: true}
}
