//go:build unit
// +build unit

package httputil

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		fileName    string
		expected    string
	}{
		{"plain name", DispositionAttachment, "report.pdf", "attachment; filename=report.pdf"},
		{"quoted name", DispositionInline, "my report.pdf", `inline; filename="my report.pdf"`},
		{"non ascii name", DispositionAttachment, "résumé.txt", "attachment; filename*=utf-8''r%C3%A9sum%C3%A9.txt"},
		{"no name", DispositionInline, "", "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContentDisposition(tt.disposition, tt.fileName))
		})
	}
}

func TestValidDisposition(t *testing.T) {
	assert.True(t, ValidDisposition("inline"))
	assert.True(t, ValidDisposition("attachment"))
	assert.False(t, ValidDisposition("form-data"))
	assert.False(t, ValidDisposition(""))
}

func TestLocation(t *testing.T) {
	req := httptest.NewRequest("POST", "http://files.example.com/api/objects", nil)
	assert.Equal(t, "http://files.example.com/api/objects/1", Location(req, false, "/api/objects/1"))
	assert.Equal(t, "https://files.example.com/api/objects/1", Location(req, true, "/api/objects/1"))

	req.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "https", Scheme(req, false))

	tlsReq := httptest.NewRequest("GET", "https://files.example.com/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https", Scheme(tlsReq, false))
}
