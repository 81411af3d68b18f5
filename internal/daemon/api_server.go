package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"convertx/internal/api"
	"convertx/internal/config"
	"convertx/internal/format"
	"convertx/internal/jobs"
	"convertx/internal/logging"
)

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	resolve ownerFunc

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:    strings.TrimSpace(cfg.Paths.APIBind),
		logger:  logging.WithComponent(logger, "api-server"),
		daemon:  d,
		resolve: ownerResolver(cfg),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/formats", srv.handleFormats)
	mux.HandleFunc("/api/formats/", srv.handleFormatTargets)
	mux.HandleFunc("/api/jobs", requireOwner(srv.resolve, srv.handleJobs))
	mux.HandleFunc("/api/jobs/", requireOwner(srv.resolve, srv.handleJobSubpath))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      0, // submissions convert synchronously
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listen address, useful when binding port 0.
func (s *apiServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	deps := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		deps[i] = api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		}
	}
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		JobDBPath:    status.JobDBPath,
		LockFilePath: status.LockFilePath,
		Dependencies: deps,
	})
}

func (s *apiServer) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	reg := s.daemon.registry
	matrix := reg.Matrix()
	converters := make(map[string]api.ConverterFormats, len(matrix))
	for name, formats := range matrix {
		converters[name] = api.ConverterFormats{Inputs: formats.Inputs, Outputs: formats.Outputs}
	}
	s.writeJSON(w, http.StatusOK, api.FormatsResponse{
		Converters:         converters,
		SupportedInputs:    reg.SupportedInputs(),
		SupportedOutputs:   reg.SupportedOutputs(),
		InputsByConverter:  reg.InputsByConverter(),
		OutputsByConverter: reg.OutputsByConverter(),
	})
}

func (s *apiServer) handleFormatTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/formats/")
	if raw == "" || strings.Contains(raw, "/") {
		s.writeError(w, http.StatusNotFound, "format not found")
		return
	}
	ext := format.NormalizeInput(raw)
	targets, byBackend, ok := s.daemon.registry.OutputsForInput(ext)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no converter supports %q", ext))
		return
	}
	s.writeJSON(w, http.StatusOK, api.FormatTargetsResponse{
		Input:     ext,
		Targets:   targets,
		ByBackend: byBackend,
	})
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request, owner string) {
	switch r.Method {
	case http.MethodGet:
		s.listJobs(w, r, owner)
	case http.MethodPost:
		s.submitJob(w, r, owner)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) listJobs(w http.ResponseWriter, r *http.Request, owner string) {
	list, err := s.daemon.store.JobsByOwner(r.Context(), owner)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := api.JobListResponse{Jobs: make([]api.JobResponse, 0, len(list))}
	for _, job := range list {
		records, err := s.daemon.store.FileRecords(r.Context(), job.ID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Jobs = append(resp.Jobs, api.FromJob(job, records))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) submitJob(w http.ResponseWriter, r *http.Request, owner string) {
	var payload api.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	files := make([]jobs.FileInput, 0, len(payload.Files))
	for _, file := range payload.Files {
		files = append(files, jobs.FileInput{
			Name:      file.Name,
			Content:   file.Content,
			SourceURL: file.SourceURL,
		})
	}

	result, err := s.daemon.manager.Run(r.Context(), jobs.SubmitRequest{
		Owner:        owner,
		TargetFormat: payload.TargetFormat,
		Backend:      payload.Backend,
		Options:      payload.Options,
		Files:        files,
	})
	if err != nil {
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromJob(result.Job, result.Files))
}

// handleJobSubpath serves /api/jobs/{id} and /api/jobs/{id}/files/{name}.
func (s *apiServer) handleJobSubpath(w http.ResponseWriter, r *http.Request, owner string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		s.getJob(w, r, owner, parts[0])
	case len(parts) == 3 && parts[1] == "files" && parts[2] != "":
		name, err := url.PathUnescape(parts[2])
		if err != nil {
			s.writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.getArtifact(w, r, owner, parts[0], name)
	default:
		s.writeError(w, http.StatusNotFound, "job not found")
	}
}

func (s *apiServer) getJob(w http.ResponseWriter, r *http.Request, owner, jobID string) {
	job, err := s.daemon.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// A foreign job and a missing one are indistinguishable to the caller.
	if job == nil || job.Owner != owner {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	records, err := s.daemon.store.FileRecords(r.Context(), job.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromJob(job, records))
}

func (s *apiServer) getArtifact(w http.ResponseWriter, r *http.Request, owner, jobID, name string) {
	path, err := s.daemon.resolver.Resolve(r.Context(), owner, jobID, name)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "file not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func contentTypeFor(path string) string {
	if mimeType := mime.TypeByExtension(filepath.Ext(path)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, jobs.ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, jobs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
