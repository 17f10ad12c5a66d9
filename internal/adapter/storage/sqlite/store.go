package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	"github.com/Sarkar-G22/subpro2/internal/domain"
	"github.com/Sarkar-G22/subpro2/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, "subpro.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(j *domain.Job) error {
	_, err := s.db.Exec(`
		INSERT INTO jobs (
			id, stage, progress, message, error_message, original_name,
			upload_path, output_dir, srt_path, video_path, video_requested,
			video_created, model_name, language, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, string(j.Stage), j.Progress, j.Message, j.ErrorMessage, j.OriginalName,
		j.UploadPath, j.OutputDir, j.SRTPath, j.VideoPath, boolToInt(j.VideoRequested),
		boolToInt(j.VideoCreated), j.ModelName, j.Language, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *Store) Get(id string) (*domain.Job, error) {
	row := s.db.QueryRow(`
		SELECT id, stage, progress, message, error_message, original_name,
		       upload_path, output_dir, srt_path, video_path, video_requested,
		       video_created, model_name, language, created_at, updated_at
		FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *Store) Update(j *domain.Job) error {
	j.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE jobs SET
			stage = ?, progress = ?, message = ?, error_message = ?,
			output_dir = ?, srt_path = ?, video_path = ?,
			video_created = ?, updated_at = ?
		WHERE id = ?`,
		string(j.Stage), j.Progress, j.Message, j.ErrorMessage,
		j.OutputDir, j.SRTPath, j.VideoPath,
		boolToInt(j.VideoCreated), j.UpdatedAt, j.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (s *Store) FailInterrupted(message string) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE jobs SET stage = ?, error_message = ?, message = ?, updated_at = ?
		WHERE stage NOT IN (?, ?)`,
		string(domain.StageFailed), message, message, time.Now().UTC(),
		string(domain.StageCompleted), string(domain.StageFailed),
	)
	if err != nil {
		return 0, fmt.Errorf("fail interrupted jobs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteTerminalBefore(cutoff time.Time) ([]*domain.Job, error) {
	rows, err := s.db.Query(`
		SELECT id, stage, progress, message, error_message, original_name,
		       upload_path, output_dir, srt_path, video_path, video_requested,
		       video_created, model_name, language, created_at, updated_at
		FROM jobs
		WHERE stage IN (?, ?) AND updated_at < ?`,
		string(domain.StageCompleted), string(domain.StageFailed), cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired jobs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var expired []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, job := range expired {
		if _, err := s.db.Exec(`DELETE FROM jobs WHERE id = ?`, job.ID); err != nil {
			return nil, fmt.Errorf("delete job %s: %w", job.ID, err)
		}
	}
	return expired, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var stage string
	var videoRequested, videoCreated int64
	err := row.Scan(
		&j.ID, &stage, &j.Progress, &j.Message, &j.ErrorMessage, &j.OriginalName,
		&j.UploadPath, &j.OutputDir, &j.SRTPath, &j.VideoPath, &videoRequested,
		&videoCreated, &j.ModelName, &j.Language, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Stage = domain.Stage(stage)
	j.VideoRequested = videoRequested != 0
	j.VideoCreated = videoCreated != 0
	return &j, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

var _ port.JobStore = (*Store)(nil)
