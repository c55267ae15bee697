// Package subproc provides scoped acquisition of external process handles
// with line-oriented access to their merged stdout/stderr. Every handle
// guarantees wait-to-completion and exit-code capture on all exit paths, so
// no child is ever left as a zombie.
package subproc

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Size limits for captured output
const (
	// maxCapturedBytes bounds the diagnostic tail kept from process output.
	maxCapturedBytes = 64 * 1024

	// maxLineBytes bounds a single scanned line.
	maxLineBytes = 1024 * 1024
)

// Handle is a running external process with its output readable line by line.
type Handle struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner

	mu       sync.Mutex
	captured strings.Builder
	waitErr  error
	waited   bool
}

// Start launches name with args, merging stdout and stderr into one
// line-oriented stream. The child never gets an inherited console window.
func Start(ctx context.Context, name string, args ...string) (*Handle, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideConsoleWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	return &Handle{cmd: cmd, scanner: scanner}, nil
}

// NextLine returns the next output line. Malformed byte sequences are
// replaced rather than raising, so one bad line never aborts progress
// tracking. ok is false once the stream is exhausted.
func (h *Handle) NextLine() (line string, ok bool) {
	if !h.scanner.Scan() {
		return "", false
	}
	line = strings.ToValidUTF8(h.scanner.Text(), "�")
	h.capture(line)
	return line, true
}

// Drain consumes any remaining output so the child cannot block on a full
// pipe. Safe to call after partial iteration.
func (h *Handle) Drain() {
	for {
		if _, ok := h.NextLine(); !ok {
			return
		}
	}
}

// Wait drains remaining output and waits the process to completion. It is
// idempotent; every code path that starts a handle must end in Wait.
func (h *Handle) Wait() error {
	h.Drain()

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.waited {
		h.waitErr = h.cmd.Wait()
		h.waited = true
	}
	return h.waitErr
}

// ExitCode returns the process exit code after Wait, or -1 before it.
func (h *Handle) ExitCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.waited {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

// Output returns the captured tail of the process output for diagnostics.
func (h *Handle) Output() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.captured.String()
}

func (h *Handle) capture(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.captured.Len() < maxCapturedBytes {
		h.captured.WriteString(line)
		h.captured.WriteByte('\n')
	}
}

// RunOutput runs name with args to completion and returns its combined
// output, for short probing commands that print a single value.
func RunOutput(ctx context.Context, name string, args ...string) (string, error) {
	h, err := Start(ctx, name, args...)
	if err != nil {
		return "", err
	}
	err = h.Wait()
	out := strings.TrimSpace(h.Output())
	if err != nil {
		return out, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}
