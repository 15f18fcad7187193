package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/musegen/muse/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	var hits []string
	record := func(tag string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, tag)
		}
	}

	routes.Register(mux,
		routes.Group{
			Prefix: "/publish",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "/instagram", Handler: record("instagram")},
			},
		},
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/health", Handler: record("health")},
			},
		},
	)

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantTag  string
	}{
		{"POST", "/publish/instagram", http.StatusOK, "instagram"},
		{"GET", "/health", http.StatusOK, "health"},
		{"GET", "/publish/instagram", http.StatusMethodNotAllowed, ""},
		{"POST", "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			hits = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantTag != "" && (len(hits) != 1 || hits[0] != tt.wantTag) {
				t.Errorf("hits = %v, want [%s]", hits, tt.wantTag)
			}
		})
	}
}
