// Package transcribe drives the speech-to-text engine: a primary decode,
// a confidence-gated retry, and transcript post-processing.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/port"
	"github.com/Sarkar-G22/subpro2/internal/textnorm"
)

// Request describes one transcription run.
type Request struct {
	AudioPath string
	Model     string
	Language  domain.LanguageType
	// AutoDetect leaves the engine language unset so it detects per-audio.
	AutoDetect bool
	// OnProgress, when set, receives coarse progress as the run advances.
	// fraction is in [0,1] within the transcription phase.
	OnProgress func(fraction float64, message string)
}

// Result is a completed transcription run.
type Result struct {
	Document  *domain.SubtitleDocument
	ModelCode string
	Retried   bool
	Elapsed   time.Duration
}

// pass is one engine decode with its aggregate confidence.
type pass struct {
	result *port.EngineResult
	mean   float64
}

type Orchestrator struct {
	engine port.TranscriptionEngine
}

func NewOrchestrator(engine port.TranscriptionEngine) *Orchestrator {
	return &Orchestrator{engine: engine}
}

// Run decodes the audio, retries once on a low-confidence Hindi-family
// decode, and normalizes the surviving segments.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	profile := domain.ProfileFor(req.Language)

	langCode := profile.ModelCode
	if req.AutoDetect {
		langCode = ""
	}

	report(req, 0.1, "decoding audio")
	primary, err := o.decode(ctx, req, langCode, primaryTemperature)
	if err != nil {
		return nil, err
	}

	chosen := primary
	retried := false
	resolved := resolvedCode(primary.result.Language, langCode)
	if shouldRetry(resolved, primary.mean) {
		logger.Info.Printf("low-confidence decode (mean %.3f), retrying with language detection", primary.mean)
		report(req, 0.6, "retrying with language detection")
		retry, err := o.decode(ctx, req, "", retryTemperature)
		if err != nil {
			logger.Warn.Printf("retry pass failed, keeping primary result: %v", err)
		} else {
			retried = true
			chosen = pickBetter(primary, retry)
			resolved = resolvedCode(chosen.result.Language, langCode)
		}
	}

	report(req, 0.9, "normalizing transcript")
	doc, err := buildDocument(chosen.result, profile, resolved)
	if err != nil {
		return nil, err
	}

	return &Result{
		Document:  doc,
		ModelCode: resolved,
		Retried:   retried,
		Elapsed:   time.Since(started),
	}, nil
}

func (o *Orchestrator) decode(ctx context.Context, req Request, langCode string, temperature float64) (*pass, error) {
	result, err := o.engine.Transcribe(ctx, req.AudioPath, port.TranscribeOptions{
		Model:                     req.Model,
		Language:                  langCode,
		WordTimestamps:            true,
		Temperature:               temperature,
		ConditionOnPreviousText:   true,
		CompressionRatioThreshold: compressionRatioThreshold,
		LogProbThreshold:          logProbThreshold,
		NoSpeechThreshold:         noSpeechThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	return &pass{result: result, mean: meanLogProb(result.Segments)}, nil
}

// resolvedCode is the engine's detected language when present, otherwise the
// code the run was asked for.
func resolvedCode(detected, requested string) string {
	if detected != "" {
		return detected
	}
	return requested
}

func meanLogProb(segments []port.EngineSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range segments {
		sum += s.AvgLogProb
	}
	return sum / float64(len(segments))
}

// buildDocument normalizes segment text and filters out noise. Hindi-family
// segments below the strict confidence floor are dropped even when their
// text survives cleaning.
func buildDocument(result *port.EngineResult, profile domain.LanguageProfile, resolved string) (*domain.SubtitleDocument, error) {
	if len(result.Segments) == 0 {
		return nil, domain.ErrNoSegments
	}

	hindiFamily := domain.HindiFamily(resolved)
	segments := make([]domain.TranscriptSegment, 0, len(result.Segments))
	for i, seg := range result.Segments {
		if hindiFamily && seg.AvgLogProb < strictSegmentFloor {
			logger.Debug.Printf("dropping segment %d: avg_logprob %.3f below floor", i, seg.AvgLogProb)
			continue
		}
		text := textnorm.Clean(textnorm.ApplyCorrections(seg.Text))
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, domain.TranscriptSegment{
			Index:      i + 1,
			Start:      seg.Start,
			End:        seg.End,
			Text:       text,
			AvgLogProb: seg.AvgLogProb,
		})
	}
	if len(segments) == 0 {
		return nil, domain.ErrEmptyTranscript
	}

	return &domain.SubtitleDocument{Segments: segments, Language: profile}, nil
}

func report(req Request, fraction float64, message string) {
	if req.OnProgress != nil {
		req.OnProgress(fraction, message)
	}
}
