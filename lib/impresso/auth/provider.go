// Package auth covers the session acquisition boundary: anything that
// can produce a bearer token for the Impresso API. The interactive
// browser login itself lives outside this repository; the
// CommandProvider is the hook it plugs into.
package auth

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Provider interface {
	// Returns a usable bearer token or fails. May be slow (an
	// external login flow can take seconds).
	Acquire(ctx context.Context) (string, error)
}

// Serves one fixed token, typically from an environment variable or a
// test fixture.
type StaticTokenProvider struct {
	Token string
}

func (p StaticTokenProvider) Acquire(ctx context.Context) (string, error) {
	tok := CleanToken(p.Token)
	if !IsPlausibleToken(tok) {
		return "", fmt.Errorf("static token does not look like an API token")
	}
	return tok, nil
}

// Rereads a token file on every acquisition, so an external login flow
// can drop a fresh token next to a long-lived run.
type TokenFileProvider struct {
	Path string
}

func (p TokenFileProvider) Acquire(ctx context.Context) (string, error) {
	contents, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := CleanToken(string(contents))
	if !IsPlausibleToken(tok) {
		return "", fmt.Errorf("token file %s does not contain a plausible token", p.Path)
	}
	return tok, nil
}

// Runs an external command (the browser login flow) and extracts the
// token from its stdout.
type CommandProvider struct {
	// argv, e.g. ["python3", "getting_client.py"]
	Command []string
}

func (p CommandProvider) Acquire(ctx context.Context) (string, error) {
	if len(p.Command) == 0 {
		return "", fmt.Errorf("no token command configured")
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("token command %q: %w", strings.Join(p.Command, " "), err)
	}

	tok := ExtractToken(string(out))
	if tok == "" {
		return "", fmt.Errorf("token command produced no plausible token")
	}
	return tok, nil
}
