package osexec

import (
	"context"
	"testing"
	"time"
)

func TestRunRejectsCommandNotWhitelisted(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	_, err := exec.Run(context.Background(), "rm", []string{"-rf", "/"})
	if err == nil {
		t.Fatal("expected error for non-whitelisted command")
	}
}

func TestRunRejectsShellMetacharacters(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	_, err := exec.Run(context.Background(), "echo", []string{"hi; rm -rf /"})
	if err == nil {
		t.Fatal("expected error for shell metacharacters")
	}
}

func TestRunRejectsTooManyArgs(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	args := make([]string, 10)
	for i := range args {
		args[i] = "x"
	}
	_, err := exec.Run(context.Background(), "pwd", args)
	if err == nil {
		t.Fatal("expected error for too many arguments")
	}
}

func TestRunRejectsArgNotMatchingPattern(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	_, err := exec.Run(context.Background(), "cat", []string{"file with spaces and !!"})
	if err == nil {
		t.Fatal("expected error for argument not matching allowed pattern")
	}
}

func TestRunEchoSucceeds(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	result, err := exec.Run(context.Background(), "echo", []string{"Hello", "World"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("expected success, got exit code %d", result.ExitCode)
	}
	if result.Stdout == "" {
		t.Fatal("expected non-empty stdout")
	}
}

func TestRunRespectsTimeout(t *testing.T) {
	entries := map[string]Entry{"sleep": {Description: "sleep", MaxArgs: 1}}
	exec := NewWhitelistExecutor(entries)
	exec.SetTimeout(10 * time.Millisecond)

	_, err := exec.Run(context.Background(), "sleep", []string{"5"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestIsWhitelisted(t *testing.T) {
	exec := NewWhitelistExecutor(DefaultEntries())
	if !exec.IsWhitelisted("ls") {
		t.Error("ls should be whitelisted")
	}
	if exec.IsWhitelisted("sudo") {
		t.Error("sudo should not be whitelisted")
	}
}
