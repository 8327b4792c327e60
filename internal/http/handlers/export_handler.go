package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"timetable-export/internal/logger"
	"timetable-export/internal/service"
	"timetable-export/internal/store"
)

// ExportHandler serves the generation and download endpoints.
type ExportHandler struct {
	service     *service.ExportService
	respondJSON bool
	log         logger.Logger
}

func NewExportHandler(svc *service.ExportService, respondJSON bool, log logger.Logger) *ExportHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &ExportHandler{service: svc, respondJSON: respondJSON, log: log}
}

func (h *ExportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/generate", h.handleGenerate)
	mux.HandleFunc("/download", h.handleDownload)
	mux.HandleFunc("/healthz", h.handleHealthz)
}

type statusResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message,omitempty"`
	GenerationID     string  `json:"generation_id,omitempty"`
	TotalAssignments int     `json:"total_assignments,omitempty"`
	TotalFiles       int     `json:"total_files,omitempty"`
	GenerationTime   float64 `json:"generation_time,omitempty"`
}

func (h *ExportHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	artifact, err := h.service.Generate(r.Context())
	if err != nil {
		h.log.Errorf("generation failed: %v", err)
		switch {
		case errors.Is(err, service.ErrBusy):
			writeJSON(w, http.StatusConflict, statusResponse{Success: false, Message: service.ErrBusy.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: err.Error()})
		}
		return
	}

	setGenerationHeaders(w, artifact)
	if h.respondJSON {
		writeJSON(w, http.StatusOK, statusResponse{
			Success:          true,
			Message:          "Timetable generated",
			GenerationID:     artifact.ID.String(),
			TotalAssignments: artifact.TotalAssignments,
			TotalFiles:       artifact.TotalFiles,
			GenerationTime:   artifact.GenerationTime.Seconds(),
		})
		return
	}
	writeArchive(w, artifact)
}

func (h *ExportHandler) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	var artifact store.Artifact
	var err error
	if id == "" {
		artifact, err = h.service.Latest(r.Context())
	} else {
		artifact, err = h.service.Get(r.Context(), id)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "Invalid generation id"})
		case errors.Is(err, service.ErrNotFound) && id != "":
			writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "Unknown generation id"})
		case errors.Is(err, service.ErrNotFound):
			writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "No timetable generated yet"})
		default:
			h.log.Errorf("download failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: err.Error()})
		}
		return
	}

	setGenerationHeaders(w, artifact)
	writeArchive(w, artifact)
}

func (h *ExportHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func setGenerationHeaders(w http.ResponseWriter, artifact store.Artifact) {
	w.Header().Set("X-Generation-Time", fmt.Sprintf("%.2f", artifact.GenerationTime.Seconds()))
	w.Header().Set("X-Total-Assignments", strconv.Itoa(artifact.TotalAssignments))
	w.Header().Set("X-Total-Files", strconv.Itoa(artifact.TotalFiles))
}

func writeArchive(w http.ResponseWriter, artifact store.Artifact) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="timetables.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	_, _ = w.Write(artifact.Data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
