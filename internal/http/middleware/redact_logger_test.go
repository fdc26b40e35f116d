package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	cases := []struct{ in, want string }{
		{"id=0b0f4c1e-2f3a-4b5c-8d9e-0123456789ab", "id=[REDACTED:id]"},
		{"mail=john.doe@example.com", "mail=[REDACTED:email]"},
		{"tel=212-555-1212", "tel=[REDACTED:phone]"},
		{"t=eyJhbGciOiJIUzI1NiJ9.eyJ1aWQiOiJ1In0.sig", "t=[REDACTED:token]"},
		{"q=joão 3:16", "q=joão 3:16"},
	}
	for _, tc := range cases {
		if got := redact(tc.in); got != tc.want {
			t.Errorf("redact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactingLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Secret"}}), Identity(""))
	r.GET("/saved/devotionals/:id", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/saved/devotionals/x?email=a@b.io", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("api-key", "k")
	req.Header.Set("X-Secret", "s")
	req.Header.Set("X-Request-ID", "rid-1")
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var inside, access map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &inside)
	_ = json.Unmarshal([]byte(lines[1]), &access)

	if inside["request_id"] != "rid-1" {
		t.Fatalf("scoped logger lacks request id: %v", inside)
	}
	if access["path"] != "/saved/devotionals/:id" || access["level"] != "info" || access["authenticated"] != true {
		t.Fatalf("access line: %v", access)
	}
	if !strings.Contains(access["query"].(string), "[REDACTED:email]") {
		t.Fatalf("query not redacted: %v", access["query"])
	}
	headers := access["headers"].(map[string]any)
	for _, h := range []string{"Authorization", "Api-Key", "X-Secret"} {
		if headers[h] != "[REDACTED]" {
			t.Errorf("header %s = %v", h, headers[h])
		}
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx should log at error: %s", buf.String())
	}
}
