// Package burnin renders subtitles into video frames by cascading through
// ffmpeg invocation strategies until one produces output.
package burnin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
	"github.com/Sarkar-G22/subpro2/internal/subtitle"
)

const defaultAttemptTimeout = 10 * time.Minute

// strategy is one way of asking ffmpeg to burn subtitles in. build returns
// the command plus an optional cleanup for temp files it created.
type strategy struct {
	name  string
	build func() (port.Command, func(), error)
}

type Engine struct {
	transcoder port.Transcoder
	timeout    time.Duration
}

func NewEngine(transcoder port.Transcoder) *Engine {
	return &Engine{transcoder: transcoder, timeout: defaultAttemptTimeout}
}

// Burn renders srtPath into videoPath, writing the result to outputPath.
// Strategies are tried in order; the first one that exits cleanly and leaves
// a non-empty output file wins.
func (e *Engine) Burn(ctx context.Context, videoPath, srtPath, outputPath string, style domain.StyleDescriptor) error {
	if !e.transcoder.Available() {
		return domain.ErrBurnInUnavailable
	}
	if err := e.preflight(srtPath); err != nil {
		return err
	}

	var failures []string
	for _, s := range e.strategies(videoPath, srtPath, outputPath, style) {
		cmd, cleanup, err := s.build()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		result, runErr := e.transcoder.Run(attemptCtx, cmd)
		cancel()
		if cleanup != nil {
			cleanup()
		}

		if runErr == nil && result.ExitCode == 0 && nonEmptyFile(outputPath) {
			logger.Info.Printf("subtitle burn-in succeeded via %s", s.name)
			return nil
		}

		reason := describeFailure(result, runErr, outputPath)
		logger.Warn.Printf("burn-in strategy %s failed: %s", s.name, reason)
		failures = append(failures, fmt.Sprintf("%s: %s", s.name, reason))
		os.Remove(outputPath)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %s", domain.ErrBurnInExhausted, strings.Join(failures, "; "))
}

// preflight rejects subtitle files ffmpeg would silently render nothing from.
func (e *Engine) preflight(srtPath string) error {
	content, err := os.ReadFile(srtPath)
	if err != nil {
		return fmt.Errorf("read subtitles: %w", err)
	}
	if ok, reason := subtitle.Validate(string(content)); !ok {
		return fmt.Errorf("%w: subtitle file %s", domain.ErrSerializationInvalid, reason)
	}
	return nil
}

func (e *Engine) strategies(videoPath, srtPath, outputPath string, style domain.StyleDescriptor) []strategy {
	encodeArgs := func(filter string) port.Command {
		return port.Command{Args: []string{
			"-i", videoPath,
			"-vf", filter,
			"-c:a", "copy",
			"-c:v", "libx264",
			"-preset", "fast",
			"-y", outputPath,
		}}
	}

	return []strategy{
		{
			// Full ASS document carrying the style, safest across ffmpeg builds.
			name: "styled-ass",
			build: func() (port.Command, func(), error) {
				assPath, cleanup, err := writeStyledDocument(srtPath, style)
				if err != nil {
					return port.Command{}, nil, err
				}
				return encodeArgs("ass=" + NormalizeFilterPath(assPath)), cleanup, nil
			},
		},
		{
			// Plain overlay without custom styling, in case the styled
			// document itself is what the transcoder rejects.
			name: "subtitles-filter",
			build: func() (port.Command, func(), error) {
				return encodeArgs("subtitles=" + NormalizeFilterPath(srtPath)), nil, nil
			},
		},
		{
			// Some builds mishandle absolute filter paths; run from the video's
			// directory with a co-located copy of the subtitles.
			name: "co-located-srt",
			build: func() (port.Command, func(), error) {
				videoDir := filepath.Dir(videoPath)
				local := filepath.Join(videoDir, "temp_subtitles.srt")
				if err := copyFile(srtPath, local); err != nil {
					return port.Command{}, nil, err
				}
				cleanup := func() { os.Remove(local) }
				cmd := port.Command{
					Args: []string{
						"-i", videoPath,
						"-vf", "subtitles=temp_subtitles.srt",
						"-c:a", "copy",
						"-c:v", "libx264",
						"-preset", "fast",
						"-y", outputPath,
					},
					Dir: videoDir,
				}
				return cmd, cleanup, nil
			},
		},
		{
			// Last resort: the styled filter again, but with the path passed
			// through unmodified.
			name: "ass-raw-path",
			build: func() (port.Command, func(), error) {
				assPath, cleanup, err := writeStyledDocument(srtPath, style)
				if err != nil {
					return port.Command{}, nil, err
				}
				return encodeArgs("ass=" + assPath), cleanup, nil
			},
		},
	}
}

// writeStyledDocument renders the SRT as a styled ASS file next to it and
// returns the path plus a cleanup removing it.
func writeStyledDocument(srtPath string, style domain.StyleDescriptor) (string, func(), error) {
	content, err := os.ReadFile(srtPath)
	if err != nil {
		return "", nil, err
	}
	doc, err := subtitle.BuildDocument(string(content), style)
	if err != nil {
		return "", nil, err
	}
	assPath := strings.TrimSuffix(srtPath, filepath.Ext(srtPath)) + ".ass"
	if err := os.WriteFile(assPath, []byte(doc), 0o644); err != nil {
		return "", nil, err
	}
	return assPath, func() { os.Remove(assPath) }, nil
}

func describeFailure(result port.CommandResult, runErr error, outputPath string) string {
	if runErr != nil {
		return runErr.Error()
	}
	if result.ExitCode != 0 {
		tail := strings.TrimSpace(result.Stderr)
		if tail == "" {
			return fmt.Sprintf("exit code %d", result.ExitCode)
		}
		return fmt.Sprintf("exit code %d: %s", result.ExitCode, tail)
	}
	if !nonEmptyFile(outputPath) {
		return "produced no output"
	}
	return "unknown failure"
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
