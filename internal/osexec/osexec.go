// Package osexec runs transcribed-intent commands against a fixed
// allow-list, the way original_source/os-executor's CommandWhitelist +
// CommandExecutor do. It is a consumer of the voice pipeline's output,
// not part of the pipeline itself.
package osexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command's execution.
const DefaultTimeout = 5 * time.Second

// DefaultMaxOutputBytes caps combined stdout+stderr capture.
const DefaultMaxOutputBytes = 1024 * 1024

// shellMetacharacters mirrors the original executor's denylist: any
// argument containing one of these is rejected outright, regardless of
// whether it would also match an allow-list pattern, since a literal
// shell metacharacter has no legitimate use against exec.Command (which
// never invokes a shell).
var shellMetacharacters = []rune{';', '&', '|', '>', '<', '`', '$', '(', ')', '{', '}', '[', ']', '\\', '\n', '*', '?'}

// Entry describes one whitelisted command: how many arguments it accepts
// and which regular expressions each argument must match.
type Entry struct {
	Description        string
	MaxArgs            int
	AllowedArgPatterns []*regexp.Regexp
}

// Result is the outcome of a Run call.
type Result struct {
	Command    string
	Args       []string
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
	Success    bool
}

// Executor is something that can run a whitelisted command.
type Executor interface {
	Run(ctx context.Context, command string, args []string) (Result, error)
}

// WhitelistExecutor only runs commands present in its allow-list, after
// resolving the command name to a full path with exec.LookPath.
type WhitelistExecutor struct {
	entries        map[string]Entry
	timeout        time.Duration
	maxOutputBytes int
}

// NewWhitelistExecutor creates an executor over the given allow-list.
func NewWhitelistExecutor(entries map[string]Entry) *WhitelistExecutor {
	return &WhitelistExecutor{
		entries:        entries,
		timeout:        DefaultTimeout,
		maxOutputBytes: DefaultMaxOutputBytes,
	}
}

// SetTimeout overrides DefaultTimeout.
func (e *WhitelistExecutor) SetTimeout(d time.Duration) {
	e.timeout = d
}

// SetMaxOutputBytes overrides DefaultMaxOutputBytes.
func (e *WhitelistExecutor) SetMaxOutputBytes(n int) {
	e.maxOutputBytes = n
}

// IsWhitelisted reports whether command has an allow-list entry.
func (e *WhitelistExecutor) IsWhitelisted(command string) bool {
	_, ok := e.entries[command]
	return ok
}

// Run validates command and args against the allow-list, resolves the
// command's path, and executes it with a timeout, truncating captured
// output at maxOutputBytes.
func (e *WhitelistExecutor) Run(ctx context.Context, command string, args []string) (Result, error) {
	start := time.Now()

	entry, ok := e.entries[command]
	if !ok {
		return Result{}, fmt.Errorf("osexec: command not whitelisted: %s", command)
	}

	if err := validateArgs(args, entry); err != nil {
		return Result{}, err
	}

	path, err := exec.LookPath(command)
	if err != nil {
		path = command
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return Result{}, fmt.Errorf("osexec: timeout exceeded: %s", e.timeout)
	}

	stdoutText, stderrText := stdout.String(), stderr.String()
	if len(stdoutText) > e.maxOutputBytes {
		stdoutText = stdoutText[:e.maxOutputBytes]
	}
	if room := e.maxOutputBytes - len(stdoutText); len(stderrText) > room {
		stderrText = stderrText[:room]
	}

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, fmt.Errorf("osexec: execution failed: %w", runErr)
		}
	}

	return Result{
		Command:    command,
		Args:       args,
		Stdout:     stdoutText,
		Stderr:     stderrText,
		ExitCode:   exitCode,
		DurationMs: duration.Milliseconds(),
		Success:    exitCode == 0,
	}, nil
}

func validateArgs(args []string, entry Entry) error {
	if len(args) > entry.MaxArgs {
		return fmt.Errorf("osexec: too many arguments: %d > %d", len(args), entry.MaxArgs)
	}

	for i, arg := range args {
		if containsShellMetacharacters(arg) {
			return fmt.Errorf("osexec: argument %d contains shell metacharacters: %s", i, arg)
		}

		if len(entry.AllowedArgPatterns) == 0 {
			continue
		}
		matched := false
		for _, pattern := range entry.AllowedArgPatterns {
			if pattern.MatchString(arg) {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("osexec: argument %d does not match allowed patterns: %s", i, arg)
		}
	}
	return nil
}

func containsShellMetacharacters(s string) bool {
	return strings.ContainsAny(s, string(shellMetacharacters))
}
