package bindgen

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kballard/go-shellquote"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
)

// DefaultCommand is the generator executable looked up on PATH.
const DefaultCommand = "uniffi-bindgen"

// stderrTailSize bounds how much generator stderr is attached to errors.
const stderrTailSize = 4096

// CommandGenerator runs the uniffi-bindgen CLI:
//
//	<command...> generate <udl> --language <lang> [--config <file>] --out-dir <dir> [--no-format]
type CommandGenerator struct {
	// Command is the executable followed by any fixed leading arguments,
	// e.g. ["cargo", "run", "--bin", "uniffi-bindgen", "--"].
	Command []string

	// Stdout and Stderr receive the child's output. Nil discards stdout
	// and sends stderr to os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the working directory of the child; empty means the current one.
	Dir string
}

// NewCommandGenerator splits a shell-style command line such as
// "cargo run --bin uniffi-bindgen --" into a CommandGenerator.
func NewCommandGenerator(command string) (*CommandGenerator, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid generator command %q", command)
	}
	if len(argv) == 0 {
		return nil, errors.New("generator command is empty")
	}
	return &CommandGenerator{Command: argv}, nil
}

// Name returns the executable name for messages.
func (g *CommandGenerator) Name() string {
	if len(g.Command) == 0 {
		return ""
	}
	return g.Command[0]
}

// Args renders req as uniffi-bindgen arguments (without the command).
func (g *CommandGenerator) Args(req Request) []string {
	args := []string{"generate", req.UDLFile}
	for _, lang := range req.Languages {
		args = append(args, "--language", lang)
	}
	if req.ConfigOverride != "" {
		args = append(args, "--config", req.ConfigOverride)
	}
	if req.OutDir != "" {
		args = append(args, "--out-dir", req.OutDir)
	}
	if !req.TryFormatCode {
		args = append(args, "--no-format")
	}
	return args
}

// GenerateBindings runs the generator and waits for it to exit.
func (g *CommandGenerator) GenerateBindings(ctx context.Context, req Request) error {
	if len(g.Command) == 0 {
		return errors.New("generator command is empty")
	}

	argv := append(append([]string{}, g.Command[1:]...), g.Args(req)...)
	log := logger.Named("bindgen")
	log.Debugw("Running generator",
		logger.FieldCommand, g.Name(),
		logger.FieldArgs, shellquote.Join(argv...))

	tail := &tailBuffer{max: stderrTailSize}
	cmd := exec.CommandContext(ctx, g.Command[0], argv...)
	cmd.Dir = g.Dir
	cmd.Stdout = g.Stdout
	cmd.Stderr = io.MultiWriter(g.stderr(), tail)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		return g.wrapRunError(ctx, err, tail.String())
	}

	log.Debugw("Generator finished",
		logger.FieldCommand, g.Name(),
		logger.FieldDurationMS, elapsed.Milliseconds())
	return nil
}

func (g *CommandGenerator) stderr() io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}

// wrapRunError classifies a failed run as ErrGenerationFailed and attaches
// what the operator needs to act on it.
func (g *CommandGenerator) wrapRunError(ctx context.Context, runErr error, stderrTail string) error {
	err := errors.Mark(runErr, ErrGenerationFailed)

	var exitErr *exec.ExitError
	switch {
	case errors.Is(runErr, exec.ErrNotFound):
		err = errors.Wrapf(err, "generator %q not found", g.Name())
		err = errors.WithHint(err,
			"install it with `cargo install uniffi_bindgen` or point --generator at it")
	case ctx.Err() != nil:
		err = errors.Wrapf(err, "generator %q interrupted (%v)", g.Name(), ctx.Err())
	case errors.As(runErr, &exitErr):
		err = errors.Wrapf(err, "generator %q exited with code %d", g.Name(), exitErr.ExitCode())
	default:
		err = errors.Wrapf(err, "generator %q failed to run", g.Name())
	}

	if tail := strings.TrimSpace(stderrTail); tail != "" {
		err = errors.WithDetailf(err, "generator stderr:\n%s", tail)
	}
	return err
}

// Version runs "<command> --version" and returns the reported version.
// uniffi-bindgen prints "uniffi-bindgen 0.16.0"; the last field is taken.
func (g *CommandGenerator) Version(ctx context.Context) (*semver.Version, error) {
	if len(g.Command) == 0 {
		return nil, errors.New("generator command is empty")
	}

	argv := append(append([]string{}, g.Command[1:]...), "--version")
	cmd := exec.CommandContext(ctx, g.Command[0], argv...)
	cmd.Dir = g.Dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	tail := &tailBuffer{max: stderrTailSize}
	cmd.Stderr = tail

	if err := cmd.Run(); err != nil {
		return nil, g.wrapRunError(ctx, err, tail.String())
	}

	fields := strings.Fields(stdout.String())
	if len(fields) == 0 {
		return nil, errors.Newf("generator %q printed no version", g.Name())
	}

	v, err := semver.NewVersion(fields[len(fields)-1])
	if err != nil {
		return nil, errors.Wrapf(err, "unrecognised generator version output %q", strings.TrimSpace(stdout.String()))
	}
	return v, nil
}

// CheckVersion verifies the generator against a semver constraint such as
// ">= 0.16, < 0.30". An empty constraint always passes.
func (g *CommandGenerator) CheckVersion(ctx context.Context, constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid generator version constraint %q", constraint)
	}

	v, err := g.Version(ctx)
	if err != nil {
		return err
	}

	if !c.Check(v) {
		err := errors.Newf("generator %q is version %s, need %s", g.Name(), v, constraint)
		return errors.WithHint(err, "install a matching uniffi-bindgen or relax generator.version_constraint")
	}

	logger.Named("bindgen").Debugw("Generator version accepted",
		logger.FieldCommand, g.Name(),
		logger.FieldVersion, v.String())
	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
