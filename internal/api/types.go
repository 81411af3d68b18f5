package api

import (
	"time"

	"convertx/internal/jobs"
)

// FileSubmission is one file in a job submission: a declared name plus
// either inline base64 content or a source location to fetch.
type FileSubmission struct {
	Name      string `json:"name"`
	Content   string `json:"content,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// SubmitJobRequest is the job submission payload.
type SubmitJobRequest struct {
	Files        []FileSubmission  `json:"files"`
	TargetFormat string            `json:"targetFormat"`
	Backend      string            `json:"backend,omitempty"`
	Options      map[string]string `json:"options,omitempty"`
}

// FileResult is the per-file outcome within a job response.
type FileResult struct {
	FileName       string `json:"fileName"`
	Status         string `json:"status"`
	OutputFileName string `json:"outputFileName,omitempty"`
	Error          string `json:"error,omitempty"`
}

// JobResponse describes a job and its per-file results.
type JobResponse struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	NumFiles       int          `json:"numFiles"`
	CompletedFiles int          `json:"completedFiles"`
	TargetFormat   string       `json:"targetFormat"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	Files          []FileResult `json:"files"`
}

// JobListResponse wraps a caller's jobs.
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// FormatsResponse is the full capability matrix plus its aggregate views.
type FormatsResponse struct {
	Converters         map[string]ConverterFormats `json:"converters"`
	SupportedInputs    []string                    `json:"supportedInputs"`
	SupportedOutputs   []string                    `json:"supportedOutputs"`
	InputsByConverter  map[string][]string         `json:"inputsByConverter"`
	OutputsByConverter map[string][]string         `json:"outputsByConverter"`
}

// ConverterFormats pairs one converter's input and output extensions.
type ConverterFormats struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// FormatTargetsResponse answers a single-extension capability query.
type FormatTargetsResponse struct {
	Input     string              `json:"input"`
	Targets   []string            `json:"targets"`
	ByBackend map[string][]string `json:"byBackend"`
}

// DependencyStatus captures availability of an external tool.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	JobDBPath    string             `json:"jobDbPath"`
	LockFilePath string             `json:"lockFilePath"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromJob converts a stored job and its records to the transport shape.
func FromJob(job *jobs.Job, records []*jobs.FileRecord) JobResponse {
	resp := JobResponse{
		ID:             job.ID,
		Status:         string(job.Status),
		NumFiles:       job.NumFiles,
		CompletedFiles: job.CompletedFiles,
		TargetFormat:   job.TargetFormat,
	}
	if !job.CreatedAt.IsZero() {
		resp.CreatedAt = job.CreatedAt.UTC().Format(time.RFC3339)
	}
	resp.Files = make([]FileResult, 0, len(records))
	for _, record := range records {
		resp.Files = append(resp.Files, FileResult{
			FileName:       record.InputFileName,
			Status:         record.Status,
			OutputFileName: record.OutputFileName,
			Error:          record.FailureReason(),
		})
	}
	return resp
}
