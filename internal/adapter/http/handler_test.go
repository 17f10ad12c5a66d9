package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/jobs"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

type memStore struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newMemStore() *memStore { return &memStore{jobs: make(map[string]*domain.Job)} }

func (m *memStore) Create(job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *job
	m.jobs[job.ID] = &clone
	return nil
}

func (m *memStore) Get(id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *job
	return &clone, nil
}

func (m *memStore) Update(job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *job
	m.jobs[job.ID] = &clone
	return nil
}

func (m *memStore) FailInterrupted(string) (int64, error) { return 0, nil }

func (m *memStore) DeleteTerminalBefore(time.Time) ([]*domain.Job, error) { return nil, nil }

func (m *memStore) Close() error { return nil }

type recordingRunner struct {
	mu    sync.Mutex
	jobs  []*domain.Job
	style domain.StyleDescriptor
	done  chan struct{}
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{done: make(chan struct{}, 1)}
}

func (r *recordingRunner) Run(_ context.Context, job *domain.Job, style domain.StyleDescriptor) error {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.style = style
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingRunner) wait(t *testing.T) *domain.Job {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline was never started")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[len(r.jobs)-1]
}

type stubEngine struct{ available bool }

func (s *stubEngine) Transcribe(context.Context, string, port.TranscribeOptions) (*port.EngineResult, error) {
	return &port.EngineResult{}, nil
}

func (s *stubEngine) Available() bool { return s.available }

type stubTranscoder struct{ available bool }

func (s *stubTranscoder) Available() bool { return s.available }

func (s *stubTranscoder) Run(context.Context, port.Command) (port.CommandResult, error) {
	return port.CommandResult{}, nil
}

func (s *stubTranscoder) ExtractAudio(context.Context, string, string) error { return nil }

type testEnv struct {
	server  *Server
	store   *memStore
	tracker *jobs.Tracker
	runner  *recordingRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")
	outputDir := filepath.Join(dir, "outputs")
	require.NoError(t, os.MkdirAll(uploadDir, 0o755))
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	store := newMemStore()
	tracker := jobs.NewTracker(store)
	runner := newRecordingRunner()
	handlers := NewHandlers(tracker, runner, &stubEngine{available: true}, &stubTranscoder{available: true},
		uploadDir, outputDir, 500, "small", "test")
	return &testEnv{server: NewServer(handlers), store: store, tracker: tracker, runner: runner}
}

func mp4Payload() []byte {
	buf := []byte{0x00, 0x00, 0x00, 0x20}
	buf = append(buf, []byte("ftypisom")...)
	buf = append(buf, bytes.Repeat([]byte{0x11}, 600)...)
	return buf
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("video", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, true, payload["whisper_available"])
	assert.Equal(t, true, payload["ffmpeg_available"])
}

func TestProcessVideo_AcceptsAndStartsPipeline(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartUpload(t, "My Clip.mp4", mp4Payload(), map[string]string{
		"language":     "hinglish",
		"model":        "medium",
		"create_video": "true",
		"font_size":    "32",
		"font_color":   "yellow",
		"bold":         "true",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "started", payload["status"])
	require.NotEmpty(t, payload["job_id"])

	job := env.runner.wait(t)
	assert.Equal(t, payload["job_id"], job.ID)
	assert.Equal(t, "My Clip.mp4", job.OriginalName)
	assert.Equal(t, "hinglish", job.Language)
	assert.Equal(t, "medium", job.ModelName)
	assert.True(t, job.VideoRequested)
	assert.FileExists(t, job.UploadPath)

	assert.Equal(t, 32, env.runner.style.FontSizePt)
	assert.Equal(t, "yellow", env.runner.style.PrimaryColor)
	assert.True(t, env.runner.style.Bold)
	assert.True(t, env.runner.style.Shadow)

	stored, err := env.store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageAccepted, stored.Stage)
}

func TestProcessVideo_RejectsBadExtension(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported video format")
}

func TestProcessVideo_RejectsMasqueradingContent(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartUpload(t, "fake.mp4", []byte("this is not a video at all, just text"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a supported video")
}

func TestProcessVideo_RejectsUnknownModel(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartUpload(t, "clip.mp4", mp4Payload(), map[string]string{
		"model": "enormous",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown model")
}

func TestProcessVideo_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("language", "hindi"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-video", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no video file")
}

func TestJobStatus(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown job", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job-status/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("in progress", func(t *testing.T) {
		job := domain.NewJob("clip.mp4", "/x", "small", "hinglish", false)
		job.Stage = domain.StageTranscribing
		job.Progress = 55
		job.Message = "transcribing"
		require.NoError(t, env.store.Create(job))

		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job-status/"+job.ID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "progress", payload["type"])
		assert.Equal(t, "transcribing", payload["stage"])
		assert.Equal(t, float64(55), payload["progress"])
	})

	t.Run("failed", func(t *testing.T) {
		job := domain.NewJob("clip.mp4", "/x", "small", "hinglish", false)
		job.Stage = domain.StageFailed
		job.ErrorMessage = "audio extraction failed"
		require.NoError(t, env.store.Create(job))

		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job-status/"+job.ID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "error", payload["type"])
		assert.Equal(t, "audio extraction failed", payload["error"])
	})

	t.Run("complete with video", func(t *testing.T) {
		job := domain.NewJob("clip.mp4", "/x", "small", "hinglish", true)
		job.Stage = domain.StageCompleted
		job.Progress = 100
		job.VideoCreated = true
		require.NoError(t, env.store.Create(job))

		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/job-status/"+job.ID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "complete", payload["type"])
		assert.Equal(t, "/api/download-srt/"+job.ID, payload["srt_url"])
		assert.Equal(t, "/api/download-video/"+job.ID, payload["video_url"])
		assert.Equal(t, true, payload["video_created"])
	})
}

func TestDownloadSRT(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "captions.srt")
	require.NoError(t, os.WriteFile(srtPath, []byte("1\n00:00:00,000 --> 00:00:02,000\nnamaste\n\n"), 0o644))

	job := domain.NewJob("My Clip.mp4", "/x", "small", "hinglish", false)
	job.Stage = domain.StageCompleted
	job.SRTPath = srtPath
	require.NoError(t, env.store.Create(job))

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download-srt/"+job.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="My Clip.srt"`)
	assert.Contains(t, rec.Body.String(), "namaste")
}

func TestDownloadSRT_NotReady(t *testing.T) {
	env := newTestEnv(t)
	job := domain.NewJob("clip.mp4", "/x", "small", "hinglish", false)
	job.Stage = domain.StageTranscribing
	require.NoError(t, env.store.Create(job))

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download-srt/"+job.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadVideo_NotCreated(t *testing.T) {
	env := newTestEnv(t)
	job := domain.NewJob("clip.mp4", "/x", "small", "hinglish", true)
	job.Stage = domain.StageCompleted
	job.VideoCreated = false
	require.NoError(t, env.store.Create(job))

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download-video/"+job.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
