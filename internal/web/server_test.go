package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ilneill/R4-GPS-DataParsing/internal/gps"
)

type fakeSource struct {
	snap gps.Snapshot
}

func (f fakeSource) Snapshot() gps.Snapshot { return f.snap }

func TestHandler_Status(t *testing.T) {
	src := fakeSource{snap: gps.Snapshot{
		Source:     "serial",
		Device:     "/dev/ttyACM0",
		Baud:       9600,
		Valid:      true,
		Satellites: 8,
		LatDeg:     48.1173,
		LonDeg:     11.5167,
	}}

	rr := httptest.NewRecorder()
	Handler(src).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q", ct)
	}

	var got gps.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != src.snap {
		t.Fatalf("got %+v want %+v", got, src.snap)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler(fakeSource{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler(fakeSource{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
}
