// Package pipeline runs jobs end to end: extraction, optional language
// classification, transcription, serialization, and optional burn-in.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/burnin"
	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/jobs"
	"github.com/Sarkar-G22/subpro2/internal/language"
	"github.com/Sarkar-G22/subpro2/internal/port"
	"github.com/Sarkar-G22/subpro2/internal/subtitle"
	"github.com/Sarkar-G22/subpro2/internal/transcribe"
)

const (
	audioFileName    = "extracted_audio.wav"
	subtitleFileName = "captions.srt"
)

// Coordinator owns one job's full run. It is safe for concurrent use; each
// accepted job gets its own goroutine calling Run.
type Coordinator struct {
	tracker      *jobs.Tracker
	transcoder   port.Transcoder
	classifier   *language.Classifier
	orchestrator *transcribe.Orchestrator
	burner       *burnin.Engine
}

func NewCoordinator(tracker *jobs.Tracker, transcoder port.Transcoder, engine port.TranscriptionEngine) *Coordinator {
	return &Coordinator{
		tracker:      tracker,
		transcoder:   transcoder,
		classifier:   language.NewClassifier(engine),
		orchestrator: transcribe.NewOrchestrator(engine),
		burner:       burnin.NewEngine(transcoder),
	}
}

// Run executes the whole pipeline for an accepted job. Burn-in failures are
// non-fatal: the job still completes with its subtitle artifact.
func (c *Coordinator) Run(ctx context.Context, job *domain.Job, style domain.StyleDescriptor) error {
	if err := c.run(ctx, job, style); err != nil {
		logger.Error.Printf("job %s failed at %s: %v", job.ID, job.Stage, err)
		if failErr := c.tracker.Fail(job, err); failErr != nil {
			logger.Error.Printf("job %s could not be marked failed: %v", job.ID, failErr)
		}
		return err
	}
	return nil
}

func (c *Coordinator) run(ctx context.Context, job *domain.Job, style domain.StyleDescriptor) error {
	if _, err := os.Stat(job.UploadPath); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInputNotFound, job.UploadPath)
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	audioPath, err := c.extract(ctx, job)
	if err != nil {
		return err
	}
	defer os.Remove(audioPath)

	lang, err := c.resolveLanguage(ctx, job, audioPath)
	if err != nil {
		return err
	}

	doc, err := c.transcribeAudio(ctx, job, audioPath, lang)
	if err != nil {
		return err
	}

	if err := c.serialize(job, doc); err != nil {
		return err
	}

	if job.VideoRequested {
		c.burnIn(ctx, job, style)
	}

	message := "captions ready"
	if job.VideoRequested && !job.VideoCreated {
		message = "captions ready; video creation failed"
	} else if job.VideoCreated {
		message = "captions and subtitled video ready"
	}
	return c.tracker.Complete(job, message)
}

func (c *Coordinator) extract(ctx context.Context, job *domain.Job) (string, error) {
	if err := c.tracker.Transition(job, domain.StageExtracting, 0, "extracting audio track"); err != nil {
		return "", err
	}
	audioPath := filepath.Join(job.OutputDir, audioFileName)
	if err := c.transcoder.ExtractAudio(ctx, job.UploadPath, audioPath); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, err)
	}
	if err := c.tracker.Transition(job, domain.StageExtracting, 1, "audio extracted"); err != nil {
		return "", err
	}
	return audioPath, nil
}

// resolveLanguage returns the language profile type for transcription. An
// explicit request skips the classifying stage; anything else runs the
// classifier and the detected type's model code drives the decode.
func (c *Coordinator) resolveLanguage(ctx context.Context, job *domain.Job, audioPath string) (domain.LanguageType, error) {
	requested := strings.ToLower(strings.TrimSpace(job.Language))
	switch requested {
	case string(domain.LanguageHindi), string(domain.LanguageHinglish), string(domain.LanguageEnglish):
		return domain.LanguageType(requested), nil
	}

	if err := c.tracker.Transition(job, domain.StageClassifying, 0, "detecting language"); err != nil {
		return "", err
	}
	lang := c.classifier.Classify(ctx, audioPath, job.ModelName)
	job.Language = string(lang)
	if err := c.tracker.Transition(job, domain.StageClassifying, 1, "detected "+string(lang)); err != nil {
		return "", err
	}
	return lang, nil
}

func (c *Coordinator) transcribeAudio(ctx context.Context, job *domain.Job, audioPath string, lang domain.LanguageType) (*domain.SubtitleDocument, error) {
	if err := c.tracker.Transition(job, domain.StageTranscribing, 0, "transcribing audio"); err != nil {
		return nil, err
	}

	result, err := c.orchestrator.Run(ctx, transcribe.Request{
		AudioPath: audioPath,
		Model:     job.ModelName,
		Language:  lang,
		OnProgress: func(fraction float64, message string) {
			if err := c.tracker.Transition(job, domain.StageTranscribing, fraction, message); err != nil {
				logger.Warn.Printf("job %s progress update failed: %v", job.ID, err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Info.Printf("job %s transcribed in %s (retried=%t, language=%s)",
		job.ID, result.Elapsed.Round(time.Millisecond), result.Retried, result.ModelCode)
	return result.Document, nil
}

func (c *Coordinator) serialize(job *domain.Job, doc *domain.SubtitleDocument) error {
	if err := c.tracker.Transition(job, domain.StageSerializing, 0, "writing subtitles"); err != nil {
		return err
	}
	content := subtitle.Serialize(doc)
	if ok, reason := subtitle.Validate(content); !ok {
		return fmt.Errorf("%w: %s", domain.ErrSerializationInvalid, reason)
	}
	srtPath := filepath.Join(job.OutputDir, subtitleFileName)
	if err := os.WriteFile(srtPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	job.SRTPath = srtPath
	return c.tracker.Transition(job, domain.StageSerializing, 1, "subtitles written")
}

// burnIn attempts video creation. Any failure is logged and downgraded; the
// job keeps its subtitle artifact.
func (c *Coordinator) burnIn(ctx context.Context, job *domain.Job, style domain.StyleDescriptor) {
	if err := c.tracker.Transition(job, domain.StageBurningIn, 0, "rendering subtitled video"); err != nil {
		logger.Warn.Printf("job %s: %v", job.ID, err)
		return
	}

	// Always .mp4: every strategy encodes H.264, which containers like
	// WebM refuse to mux.
	stem := strings.TrimSuffix(job.OriginalName, filepath.Ext(job.OriginalName))
	outName := fmt.Sprintf("%s_with_subtitles_%d.mp4", stem, time.Now().Unix())
	outputPath := filepath.Join(job.OutputDir, outName)

	if err := c.burner.Burn(ctx, job.UploadPath, job.SRTPath, outputPath, style); err != nil {
		logger.Warn.Printf("job %s burn-in failed, delivering captions only: %v", job.ID, err)
		return
	}
	job.VideoPath = outputPath
	job.VideoCreated = true
	if err := c.tracker.Transition(job, domain.StageBurningIn, 1, "subtitled video ready"); err != nil {
		logger.Warn.Printf("job %s: %v", job.ID, err)
	}
}
