// Package main provides a shell-like file explorer running in an interactive
// console loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/nao1215/console"
)

func main() {
	s, err := console.New(
		console.WithPrefix("shell>"),
		console.WithMemoryHistory(1000),
	)
	if err != nil {
		log.Fatalf("failed to create console: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.WriteLine("Shell-like File Explorer Example")
	s.WriteLine("Commands:")
	s.WriteLine("  ls [path]      - List directory contents")
	s.WriteLine("  cd [path]      - Change directory")
	s.WriteLine("  cat [file]     - Show file contents")
	s.WriteLine("  pwd            - Show current directory")
	s.WriteLine("  history        - Show command history")
	s.WriteLine("  theme [name]   - Switch color theme")
	s.WriteLine("  exit/quit      - Exit")
	s.WriteLine("Use Up/Down for history, Ctrl+C to quit")

	sh := &shell{session: s}
	loop := s.StartInteractive(ctx, console.HandleWith(sh.execute))
	go s.Serve(ctx)

	if err := loop.Wait(ctx); err != nil && !errors.Is(err, console.ErrInterrupted) {
		log.Printf("loop ended: %v", err)
	}
}

type shell struct {
	session *console.Session
}

// execute runs one command line. Its result lands in the scrollback; errors
// are shown and the loop keeps going.
func (sh *shell) execute(ctx context.Context, input string) (string, error) {
	words := strings.Fields(input)
	if len(words) == 0 {
		return "", nil
	}
	cmd, args := words[0], words[1:]

	switch cmd {
	case "exit", "quit":
		sh.session.StopInteractive()
		return "Goodbye!", nil

	case "pwd":
		return os.Getwd()

	case "ls":
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Contents of %s:", path)
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				name += "/"
			}
			fmt.Fprintf(&b, "\n  %s", name)
		}
		return b.String(), nil

	case "cd":
		if len(args) == 0 {
			return "", errors.New("cd requires a directory argument")
		}
		if err := os.Chdir(args[0]); err != nil {
			return "", err
		}
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return "Changed to: " + cwd, nil

	case "cat":
		if len(args) == 0 {
			return "", errors.New("cat requires a file argument")
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		// Limit output for large files
		if len(content) > 1000 {
			return string(content[:1000]) + "\n... (truncated)", nil
		}
		return string(content), nil

	case "history":
		var b strings.Builder
		for i, entry := range sh.session.History() {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%3d: %s", i+1, entry)
		}
		return b.String(), nil

	case "theme":
		if len(args) == 0 {
			return "themes: " + strings.Join(console.ThemeNames(), ", "), nil
		}
		sh.session.SetTheme(args[0])
		return "theme: " + args[0], nil

	default:
		// #nosec G204 - This is an example program that intentionally executes user input
		out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
		if err != nil {
			return "", fmt.Errorf("executing '%s': %w", cmd, err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	}
}
