package codegen

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h := Handler()

	tests := []struct {
		name        string
		method      string
		body        string
		wantStatus  int
		wantContain string
	}{
		{
			name:        "generates source",
			method:      http.MethodPost,
			body:        `{"name":"root","children":[{"name":"build","children":[]}]}`,
			wantStatus:  http.StatusOK,
			wantContain: "rootCmd.AddCommand(buildCmd)",
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			method:     http.MethodPost,
			body:       `{"name":"root","color":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "too large",
			method:     http.MethodPost,
			body:       `{"name":"` + strings.Repeat("x", maxTreeBytes) + `"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			resp := rec.Result()
			data, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, data)
			}
			if tt.wantContain != "" && !strings.Contains(string(data), tt.wantContain) {
				t.Errorf("body missing %q:\n%s", tt.wantContain, data)
			}
			if tt.wantStatus == http.StatusOK && !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
				t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
			}
			if tt.wantStatus == http.StatusMethodNotAllowed && resp.Header.Get("Allow") != http.MethodPost {
				t.Errorf("Allow = %q", resp.Header.Get("Allow"))
			}
		})
	}
}
