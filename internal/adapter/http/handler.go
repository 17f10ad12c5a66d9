package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Sarkar-G22/subpro2/internal/adapter/http/validation"
	"github.com/Sarkar-G22/subpro2/internal/adapter/whisper"
	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/infrastructure/logger"
	"github.com/Sarkar-G22/subpro2/internal/jobs"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

// PipelineRunner runs one accepted job to completion.
type PipelineRunner interface {
	Run(ctx context.Context, job *domain.Job, style domain.StyleDescriptor) error
}

type Handlers struct {
	tracker      *jobs.Tracker
	runner       PipelineRunner
	engine       port.TranscriptionEngine
	transcoder   port.Transcoder
	uploadDir    string
	outputDir    string
	maxSizeMB    int
	defaultModel string
	version      string
}

func NewHandlers(tracker *jobs.Tracker, runner PipelineRunner, engine port.TranscriptionEngine, transcoder port.Transcoder, uploadDir, outputDir string, maxSizeMB int, defaultModel, version string) *Handlers {
	return &Handlers{
		tracker:      tracker,
		runner:       runner,
		engine:       engine,
		transcoder:   transcoder,
		uploadDir:    uploadDir,
		outputDir:    outputDir,
		maxSizeMB:    maxSizeMB,
		defaultModel: defaultModel,
		version:      version,
	}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"version":           h.version,
			"whisper_available": h.engine.Available(),
			"ffmpeg_available":  h.transcoder.Available(),
		})
	}
}

func (h *Handlers) ProcessVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(h.maxSizeMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		file, header, err := r.FormFile("video")
		if err != nil {
			writeError(w, http.StatusBadRequest, "no video file provided")
			return
		}
		defer file.Close() //nolint:errcheck

		if !validation.AllowedExtension(header.Filename) {
			writeError(w, http.StatusBadRequest, "unsupported video format")
			return
		}

		mime, allowed, err := validation.ValidateMagicBytes(file)
		if err != nil {
			logger.Error.Printf("magic byte check failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to inspect upload")
			return
		}
		if !allowed {
			logger.Warn.Printf("rejected upload %s: detected %s", logger.SanitizeForLog(header.Filename), mime)
			writeError(w, http.StatusBadRequest, "file content is not a supported video")
			return
		}

		model := r.FormValue("model")
		if model == "" {
			model = h.defaultModel
		}
		if !whisper.SupportedModel(model) {
			writeError(w, http.StatusBadRequest, "unknown model "+logger.SanitizeForLog(model))
			return
		}

		uploadPath, err := h.saveUpload(file, header.Filename)
		if err != nil {
			logger.Error.Printf("upload save failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save upload")
			return
		}

		createVideo := parseBool(r.FormValue("create_video"), true)
		job := domain.NewJob(
			validation.SanitizeFilename(header.Filename),
			uploadPath,
			model,
			strings.ToLower(strings.TrimSpace(r.FormValue("language"))),
			createVideo,
		)
		job.OutputDir = filepath.Join(h.outputDir, job.ID)

		if err := h.tracker.Accept(job); err != nil {
			logger.Error.Printf("job create failed: %v", err)
			os.Remove(uploadPath)
			writeError(w, http.StatusInternalServerError, "failed to create job")
			return
		}

		style := styleFromForm(r)
		go func() {
			_ = h.runner.Run(context.Background(), job, style)
		}()

		logger.Info.Printf("accepted job %s for %s (model=%s, video=%t)",
			job.ID, logger.SanitizeForLog(job.OriginalName), model, createVideo)
		writeJSON(w, http.StatusAccepted, map[string]string{
			"job_id":  job.ID,
			"status":  "started",
			"message": "video processing started",
		})
	}
}

func (h *Handlers) JobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := h.lookupJob(w, r)
		if !ok {
			return
		}

		switch {
		case job.Failed():
			writeJSON(w, http.StatusOK, map[string]any{
				"type":  "error",
				"error": job.ErrorMessage,
			})
		case job.Completed():
			payload := map[string]any{
				"type":          "complete",
				"progress":      100,
				"message":       job.Message,
				"srt_url":       "/api/download-srt/" + job.ID,
				"video_created": job.VideoCreated,
			}
			if job.VideoCreated {
				payload["video_url"] = "/api/download-video/" + job.ID
			}
			writeJSON(w, http.StatusOK, payload)
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"type":     "progress",
				"stage":    string(job.Stage),
				"progress": job.Progress,
				"message":  job.Message,
			})
		}
	}
}

func (h *Handlers) DownloadSRT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := h.lookupJob(w, r)
		if !ok {
			return
		}
		if !job.Completed() || job.SRTPath == "" {
			writeError(w, http.StatusNotFound, "subtitles not ready")
			return
		}

		name := strings.TrimSuffix(job.OriginalName, filepath.Ext(job.OriginalName)) + ".srt"
		w.Header().Set("Content-Disposition", validation.ContentDisposition(name, false))
		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
		http.ServeFile(w, r, job.SRTPath)
	}
}

func (h *Handlers) DownloadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := h.lookupJob(w, r)
		if !ok {
			return
		}
		if !job.Completed() || !job.VideoCreated || job.VideoPath == "" {
			writeError(w, http.StatusNotFound, "subtitled video not available")
			return
		}

		w.Header().Set("Content-Disposition", validation.ContentDisposition(filepath.Base(job.VideoPath), false))
		http.ServeFile(w, r, job.VideoPath)
	}
}

func (h *Handlers) lookupJob(w http.ResponseWriter, r *http.Request) (*domain.Job, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return nil, false
	}
	job, err := h.tracker.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return nil, false
	}
	return job, true
}

// saveUpload copies the multipart file into the upload directory under a
// timestamped, sanitized name.
func (h *Handlers) saveUpload(file io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), validation.SanitizeFilename(originalName))
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close() //nolint:errcheck

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// styleFromForm merges caption styling form fields over the defaults.
func styleFromForm(r *http.Request) domain.StyleDescriptor {
	style := domain.DefaultStyle()
	if v := r.FormValue("font_family"); v != "" {
		style.FontFamily = v
	}
	if v := r.FormValue("font_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			style.FontSizePt = size
		}
	}
	if v := r.FormValue("font_color"); v != "" {
		style.PrimaryColor = v
	}
	if v := r.FormValue("outline_color"); v != "" {
		style.OutlineColor = v
	}
	style.Bold = parseBool(r.FormValue("bold"), style.Bold)
	style.Italic = parseBool(r.FormValue("italic"), style.Italic)
	style.Shadow = parseBool(r.FormValue("shadow"), style.Shadow)
	return style
}

func parseBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
