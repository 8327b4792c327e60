package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timetable-export/internal/domain"
	"timetable-export/internal/export"
	"timetable-export/internal/service"
	"timetable-export/internal/store"
)

type stubSource struct {
	records []domain.Assignment
}

func (s stubSource) Generate(context.Context) ([]domain.Assignment, error) {
	return s.records, nil
}

func sampleRecords() []domain.Assignment {
	return []domain.Assignment{
		{CourseID: "CS101", CourseName: "Intro", SectionID: "1/1", Session: "Lecture",
			Day: "Sunday", StartTime: "9:00 AM", EndTime: "10:00 AM", Room: "Room A", Instructor: "Dr. X"},
	}
}

func newTestHandler(t *testing.T, respondJSON bool) *ExportHandler {
	t.Helper()
	var layout export.LayoutConfig
	layout.SetDefaults()
	var storeCfg store.Config
	storeCfg.SetDefaults()
	svc := service.NewExportService(
		stubSource{records: sampleRecords()},
		store.NewMemoryStore(storeCfg),
		layout,
		time.Minute,
		nil,
		nil,
	)
	return NewExportHandler(svc, respondJSON, nil)
}

func TestGenerateReturnsArchive(t *testing.T) {
	h := newTestHandler(t, false)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="timetables.zip"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rr.Header().Get("X-Generation-Time") == "" {
		t.Error("missing X-Generation-Time")
	}
	if got := rr.Header().Get("X-Total-Assignments"); got != "1" {
		t.Errorf("X-Total-Assignments = %q", got)
	}
	// 1 master + 1 year + 1 instructor + 1 room
	if got := rr.Header().Get("X-Total-Files"); got != "4" {
		t.Errorf("X-Total-Files = %q", got)
	}

	body := rr.Body.Bytes()
	if _, err := zip.NewReader(bytes.NewReader(body), int64(len(body))); err != nil {
		t.Errorf("body is not a zip: %v", err)
	}
}

func TestGenerateJSONVariant(t *testing.T) {
	h := newTestHandler(t, true)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.TotalAssignments != 1 || out.TotalFiles != 4 || out.GenerationID == "" {
		t.Errorf("unexpected body %+v", out)
	}
	if rr.Header().Get("X-Total-Files") != "4" {
		t.Error("metric headers should be set in the JSON variant too")
	}
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, false)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", rr.Code)
	}
}

func TestDownloadBeforeAnyGeneration(t *testing.T) {
	h := newTestHandler(t, false)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rr.Code)
	}
	var out statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Success || out.Message != "No timetable generated yet" {
		t.Errorf("unexpected body %+v", out)
	}
}

func TestDownloadLatestAndByID(t *testing.T) {
	h := newTestHandler(t, true)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))
	var generated statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &generated); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("download latest: status %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/zip" {
		t.Error("download should return the archive bytes")
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download?id="+generated.GenerationID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("download by id: status %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download?id=00000000-0000-0000-0000-000000000009", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d, want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download?id=nope", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed id: status %d, want 400", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, false)
	mux := http.NewServeMux()
	h.Register(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status %d, want 200", rr.Code)
	}
}
