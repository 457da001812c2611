package documents

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/srithep/meeting-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDeliveryMode(t *testing.T) {
	cases := []struct {
		name  string
		doc   models.Document
		hasS3 bool
		want  delivery
	}{
		{"s3-backed with client", models.Document{StorageKey: "documents/m/d"}, true, deliverPresign},
		{"s3-backed without client", models.Document{StorageKey: "documents/m/d"}, false, deliverNone},
		{"inline bytes", models.Document{FileData: []byte("pdf")}, true, deliverInline},
		{"inline wins over url", models.Document{FileData: []byte("pdf"), URL: "https://example.com/a.pdf"}, false, deliverInline},
		{"external url", models.Document{URL: "https://example.com/a.pdf"}, true, deliverRedirect},
		{"nothing stored", models.Document{}, true, deliverNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deliveryMode(&tc.doc, tc.hasS3); got != tc.want {
				t.Errorf("deliveryMode = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestHandlersRejectMalformedIDs(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	r := gin.New()
	r.GET("/documents/:id", h.Get)
	r.GET("/documents/:id/download", h.Download)

	for _, path := range []string{"/documents/not-a-uuid", "/documents/not-a-uuid/download"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want %d", path, w.Code, http.StatusBadRequest)
		}
	}
}

func TestContentDisposition(t *testing.T) {
	cases := []struct {
		name       string
		filename   string
		attachment bool
		want       string
	}{
		{"inline simple", "report.pdf", false, `inline; filename=report.pdf`},
		{"attachment simple", "report.pdf", true, `attachment; filename=report.pdf`},
		{"filename with spaces", "meeting minutes.pdf", true, `attachment; filename="meeting minutes.pdf"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := contentDisposition(tc.filename, tc.attachment); got != tc.want {
				t.Errorf("contentDisposition(%q, %v) = %q, want %q", tc.filename, tc.attachment, got, tc.want)
			}
		})
	}
}

func TestContentDispositionNonASCIIFilename(t *testing.T) {
	got := contentDisposition("รายงาน.pdf", true)
	if !strings.HasPrefix(got, "attachment") {
		t.Errorf("disposition type lost: %q", got)
	}
	if !strings.Contains(got, "filename") {
		t.Errorf("filename parameter missing: %q", got)
	}
}
