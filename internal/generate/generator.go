// Package generate defines the boundary to the external per-tool
// generator. The generator consumes the composed content tree and emits
// one subdirectory per tool target in that tool's native layout. It is
// invoked once, synchronously; any failure is fatal for the run and
// happens before the lock record is touched.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrGeneratorFailed wraps a non-zero generator outcome.
var ErrGeneratorFailed = errors.New("generate: generator failed")

// DefaultBin is the generator binary invoked when none is configured.
const DefaultBin = "agentpack-gen"

// defaultTimeout bounds a single generator invocation.
const defaultTimeout = 5 * time.Minute

// Descriptor tells the generator what to produce.
type Descriptor struct {
	// ContentDir is the composed content tree.
	ContentDir string
	// OutputDir is where the generator writes per-tool subdirectories.
	OutputDir string
	// Targets selects the tools to generate for.
	Targets []string
	// Categories selects the enabled feature categories.
	Categories []string
	// DryRun asks the generator to simulate without side effects beyond
	// the scratch area.
	DryRun bool
}

// Runner invokes the external generator.
type Runner interface {
	Generate(ctx context.Context, desc Descriptor) error
}

// ExecRunner runs the generator as a subprocess.
type ExecRunner struct {
	bin     string
	timeout time.Duration
}

// NewExecRunner creates an ExecRunner for the given binary. An empty bin
// falls back to DefaultBin.
func NewExecRunner(bin string) *ExecRunner {
	if bin == "" {
		bin = DefaultBin
	}
	return &ExecRunner{bin: bin, timeout: defaultTimeout}
}

// Generate invokes the generator once and waits for it. Stderr is folded
// into the returned error so the caller has one actionable message.
func (r *ExecRunner) Generate(ctx context.Context, desc Descriptor) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{
		"--content", desc.ContentDir,
		"--out", desc.OutputDir,
	}
	if len(desc.Targets) > 0 {
		args = append(args, "--targets", strings.Join(desc.Targets, ","))
	}
	if len(desc.Categories) > 0 {
		args = append(args, "--categories", strings.Join(desc.Categories, ","))
	}
	if desc.DryRun {
		args = append(args, "--dry-run")
	}

	cmd := exec.CommandContext(ctx, r.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%w: %s: %s", ErrGeneratorFailed, err, detail)
		}
		return fmt.Errorf("%w: %s", ErrGeneratorFailed, err)
	}
	return nil
}
