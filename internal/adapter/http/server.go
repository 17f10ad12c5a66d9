package http

import (
	"net/http"

	"github.com/Sarkar-G22/subpro2/internal/adapter/http/middleware"
)

type Server struct {
	mux      *http.ServeMux
	handlers *Handlers
}

func NewServer(handlers *Handlers) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		handlers: handlers,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handlers.Health())
	s.mux.HandleFunc("POST /api/process-video", s.handlers.ProcessVideo())
	s.mux.HandleFunc("GET /api/job-status/{id}", s.handlers.JobStatus())
	s.mux.HandleFunc("GET /api/download-srt/{id}", s.handlers.DownloadSRT())
	s.mux.HandleFunc("GET /api/download-video/{id}", s.handlers.DownloadVideo())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.SecurityHeaders(s.mux).ServeHTTP(w, r)
}
