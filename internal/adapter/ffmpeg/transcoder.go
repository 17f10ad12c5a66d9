package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains invalid characters")
)

// probeTimeout bounds the startup version query.
const probeTimeout = 10 * time.Second

// stderrTailLimit caps how much transcoder stderr is kept in failure context.
const stderrTailLimit = 2048

type commandRunner interface {
	Run(ctx context.Context, name string, args []string, dir string) (port.CommandResult, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string, dir string) (port.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := port.CommandResult{Stderr: tail(stderr.String())}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

func tail(s string) string {
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}

// Transcoder shells out to ffmpeg. Availability is probed once at
// construction; an unreachable binary short-circuits every later call.
type Transcoder struct {
	bin       string
	runner    commandRunner
	available bool
	version   string
}

func New(bin string) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	t := &Transcoder{bin: bin, runner: execRunner{}}
	t.probe()
	return t
}

func (t *Transcoder) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, t.bin, "-version").Output()
	if err != nil {
		logger.Warn.Printf("ffmpeg not available: %v", err)
		return
	}
	t.available = true
	if line, _, ok := strings.Cut(string(out), "\n"); ok {
		t.version = strings.TrimSpace(line)
	} else {
		t.version = strings.TrimSpace(string(out))
	}
	logger.Info.Printf("ffmpeg detected: %s", t.version)
}

func (t *Transcoder) Available() bool {
	return t.available
}

func (t *Transcoder) Version() string {
	return t.version
}

func (t *Transcoder) Run(ctx context.Context, cmd port.Command) (port.CommandResult, error) {
	if !t.available {
		return port.CommandResult{}, fmt.Errorf("run %s: binary unavailable", t.bin)
	}
	for _, arg := range cmd.Args {
		if err := validatePath(arg); err != nil {
			return port.CommandResult{}, fmt.Errorf("invalid argument: %w", err)
		}
	}
	return t.runner.Run(ctx, t.bin, cmd.Args, cmd.Dir)
}

// extractionMethods are the audio extraction fallbacks, tried in order.
// The primary produces the mono 16 kHz PCM the transcription engine expects;
// the fallback lets ffmpeg pick stream and codec defaults for containers the
// strict mapping chokes on.
func extractionMethods(inputPath, audioPath string) [][]string {
	return [][]string{
		{
			"-i", inputPath,
			"-vn",
			"-acodec", "pcm_s16le",
			"-ar", "16000",
			"-ac", "1",
			"-y",
			audioPath,
		},
		{
			"-i", inputPath,
			"-vn",
			"-ar", "16000",
			"-ac", "1",
			"-y",
			audioPath,
		},
	}
}

func (t *Transcoder) ExtractAudio(ctx context.Context, inputPath, audioPath string) error {
	if !t.available {
		return fmt.Errorf("extract audio: %s unavailable", t.bin)
	}
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(audioPath); err != nil {
		return fmt.Errorf("invalid audio path: %w", err)
	}

	var lastErr error
	for i, args := range extractionMethods(inputPath, audioPath) {
		result, err := t.runner.Run(ctx, t.bin, args, "")
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("method %d: %w (stderr: %s)", i+1, err, logger.SanitizeForLog(result.Stderr))
		logger.Warn.Printf("audio extraction attempt %d failed: %v", i+1, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

var _ port.Transcoder = (*Transcoder)(nil)
