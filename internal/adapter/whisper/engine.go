package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

// SupportedModels lists the upstream model names. Unknown names are passed
// through with a warning rather than rejected.
var SupportedModels = []string{"tiny", "base", "small", "medium", "large", "large-v2", "large-v3"}

// SupportedModel reports whether name is a known engine model.
func SupportedModel(name string) bool {
	for _, m := range SupportedModels {
		if m == name {
			return true
		}
	}
	return false
}

type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stderr.String(), err
	}
	return stderr.String(), nil
}

// Engine invokes the Whisper CLI and parses its JSON result payload.
type Engine struct {
	bin       string
	runner    commandRunner
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
	readFile  func(name string) ([]byte, error)
}

func NewEngine(bin string) *Engine {
	if bin == "" {
		bin = "whisper"
	}
	return &Engine{
		bin:       bin,
		runner:    execRunner{},
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
		readFile:  os.ReadFile,
	}
}

func (e *Engine) Available() bool {
	_, err := exec.LookPath(e.bin)
	return err == nil
}

// resultPayload mirrors the engine's JSON output file.
type resultPayload struct {
	Language string `json:"language"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func (e *Engine) Transcribe(ctx context.Context, audioPath string, opts port.TranscribeOptions) (*port.EngineResult, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, errors.New("audio path is required")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("cannot access audio file: %w", err)
	}
	if opts.Model != "" && !SupportedModel(opts.Model) {
		logger.Warn.Printf("model %q not in supported models %v, proceeding anyway",
			logger.SanitizeForLog(opts.Model), SupportedModels)
	}

	outDir, err := e.mkdirTemp("", "subpro-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create engine workspace: %w", err)
	}
	defer func() { _ = e.removeAll(outDir) }()

	args := buildArgs(audioPath, outDir, opts)
	stderr, err := e.runner.Run(ctx, e.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("engine invocation failed: %w (stderr: %s)", err, logger.SanitizeForLog(stderr))
	}

	payloadPath := filepath.Join(outDir, resultFileName(audioPath))
	data, err := e.readFile(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("engine produced no result payload: %w", err)
	}

	var payload resultPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse engine payload: %w", err)
	}

	result := &port.EngineResult{Language: payload.Language}
	if payload.Segments != nil {
		result.Segments = make([]port.EngineSegment, len(payload.Segments))
		for i, s := range payload.Segments {
			result.Segments[i] = port.EngineSegment{
				Start:      s.Start,
				End:        s.End,
				Text:       s.Text,
				AvgLogProb: s.AvgLogProb,
			}
		}
	}
	return result, nil
}

func buildArgs(audioPath, outDir string, opts port.TranscribeOptions) []string {
	args := []string{
		audioPath,
		"--task", "transcribe",
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
		"--temperature", formatFloat(opts.Temperature),
		"--word_timestamps", formatBool(opts.WordTimestamps),
		"--condition_on_previous_text", formatBool(opts.ConditionOnPreviousText),
	}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if opts.CompressionRatioThreshold != 0 {
		args = append(args, "--compression_ratio_threshold", formatFloat(opts.CompressionRatioThreshold))
	}
	if opts.LogProbThreshold != 0 {
		args = append(args, "--logprob_threshold", formatFloat(opts.LogProbThreshold))
	}
	if opts.NoSpeechThreshold != 0 {
		args = append(args, "--no_speech_threshold", formatFloat(opts.NoSpeechThreshold))
	}
	if opts.MaxDuration > 0 {
		args = append(args, "--clip_timestamps", "0,"+formatFloat(opts.MaxDuration))
	}
	return args
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// resultFileName is the engine's JSON output name: input stem plus .json.
func resultFileName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

var _ port.TranscriptionEngine = (*Engine)(nil)
