package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"timetable-export/internal/logger"
)

// Upload targets accepted by the solver's input directory.
var allowedTargets = map[string]bool{
	"courses":     true,
	"instructors": true,
	"rooms":       true,
	"timeslots":   true,
	"sections":    true,
}

const maxUploadMemory = 32 << 20

// UploadHandler persists solver input CSVs under the upload
// directory, one subdirectory per target.
type UploadHandler struct {
	dir string
	log logger.Logger
}

func NewUploadHandler(dir string, log logger.Logger) *UploadHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &UploadHandler{dir: dir, log: log}
}

func (h *UploadHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/upload", h.handleBulkUpload)
	mux.HandleFunc("/upload/", h.handleUpload)
}

type uploadResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Filename string            `json:"filename,omitempty"`
	Saved    map[string]string `json:"saved,omitempty"`
}

func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Target validation happens before any filesystem interaction.
	target := strings.TrimPrefix(r.URL.Path, "/upload/")
	if !allowedTargets[target] {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "Invalid upload target"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No file part"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No selected file"})
		return
	}

	filename := SanitizeFilename(header.Filename)
	// The client may pick the saved name: save_as forces one, while a
	// truthy use_target_name saves as "<target><original extension>".
	if saveAs := r.FormValue("save_as"); saveAs != "" {
		filename = SanitizeFilename(saveAs)
	} else if isTruthy(r.FormValue("use_target_name")) {
		filename = SanitizeFilename(target + filepath.Ext(header.Filename))
	}
	if filename == "" {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No selected file"})
		return
	}

	if err := h.save(target, filename, file); err != nil {
		h.log.Errorf("upload save failed: target=%s filename=%s: %v", target, filename, err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Message: err.Error()})
		return
	}

	h.log.Infof("saved upload: target=%s filename=%s", target, filename)
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Message: "File uploaded", Filename: filename})
}

// handleBulkUpload accepts one multipart request carrying one file
// per target field name. Unknown field names fail the whole request
// before anything is written.
func (h *UploadHandler) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No file part"})
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No file part"})
		return
	}

	for field := range r.MultipartForm.File {
		if !allowedTargets[field] {
			writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "Invalid upload target"})
			return
		}
	}

	saved := make(map[string]string)
	for field, headers := range r.MultipartForm.File {
		header := headers[0]
		if header.Filename == "" {
			writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No selected file"})
			return
		}
		filename := SanitizeFilename(header.Filename)
		if filename == "" {
			writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Message: "No selected file"})
			return
		}

		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Message: err.Error()})
			return
		}
		err = h.save(field, filename, file)
		file.Close()
		if err != nil {
			h.log.Errorf("bulk upload save failed: target=%s filename=%s: %v", field, filename, err)
			writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Message: err.Error()})
			return
		}
		saved[field] = filename
	}

	h.log.Infof("saved bulk upload: %d files", len(saved))
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Message: "Files uploaded", Saved: saved})
}

// save writes the upload under <dir>/<target>/<filename>, overwriting
// any existing file.
func (h *UploadHandler) save(target, filename string, src io.Reader) error {
	targetDir := filepath.Join(h.dir, target)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(targetDir, filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename strips any path component and everything outside
// a conservative character set, so a client-supplied name can never
// escape the target directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.TrimLeft(name, ".")
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
