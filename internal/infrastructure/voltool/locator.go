package voltool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when no candidate command responds to the
// help probe. Callers treat it as fatal and exit with a dedicated code.
var ErrToolNotFound = errors.New("volatility 3 not found")

// DefaultCandidates are the command names probed, in order, when no
// override is configured.
func DefaultCandidates() []string {
	return []string{"vol", "vol.py", "volatility3"}
}

// DefaultAcceptExitCodes are the probe exit codes that count as "tool
// present". Volatility's -h exits 0 or 1 depending on version, which is
// why the set is configurable rather than hard-coded at call sites.
func DefaultAcceptExitCodes() []int {
	return []int{0, 1}
}

// Locator probes an ordered list of candidate commands and resolves the
// first one whose help invocation exits with an acceptable code.
type Locator struct {
	candidates []string
	accept     map[int]struct{}
}

// NewLocator creates a Locator. Empty slices fall back to the defaults.
func NewLocator(candidates []string, acceptExitCodes []int) *Locator {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	if len(acceptExitCodes) == 0 {
		acceptExitCodes = DefaultAcceptExitCodes()
	}

	accept := make(map[int]struct{}, len(acceptExitCodes))
	for _, code := range acceptExitCodes {
		accept[code] = struct{}{}
	}

	return &Locator{
		candidates: append([]string(nil), candidates...),
		accept:     accept,
	}
}

// Candidates returns a copy of the candidate command names in probe order.
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Locate runs `<candidate> -h` for each candidate in order and returns the
// first whose process starts and exits with an acceptable code. Probe
// output is discarded; only the exit code matters.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	for _, candidate := range l.candidates {
		cmd := exec.CommandContext(ctx, candidate, "-h")
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard

		err := cmd.Run()
		if err == nil {
			if _, ok := l.accept[0]; ok {
				return candidate, nil
			}
			continue
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if _, ok := l.accept[exitErr.ExitCode()]; ok {
				return candidate, nil
			}
		}
		// Not found on PATH, not executable, or unacceptable exit code:
		// try the next candidate.
	}

	return "", fmt.Errorf("%w (tried: %s)", ErrToolNotFound, strings.Join(l.candidates, ", "))
}
