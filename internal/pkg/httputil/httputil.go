// Package httputil holds small helpers for building HTTP responses.
package httputil

import (
	"mime"
	"net/http"
	"strings"
)

// Content dispositions accepted for raw downloads.
const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

// ContentDisposition formats a Content-Disposition header for fileName.
// Names outside of ASCII are encoded as RFC 2231 extended parameters.
func ContentDisposition(disposition, fileName string) string {
	if fileName == "" {
		return disposition
	}
	if header := mime.FormatMediaType(disposition, map[string]string{"filename": fileName}); header != "" {
		return header
	}
	return disposition
}

// ValidDisposition reports whether d is a supported disposition type.
func ValidDisposition(d string) bool {
	return d == DispositionAttachment || d == DispositionInline
}

// Scheme returns the scheme the client used for r, honouring X-Forwarded-Proto.
// forceHTTPS makes it https regardless.
func Scheme(r *http.Request, forceHTTPS bool) string {
	if forceHTTPS {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// Location builds an absolute URL for path on the host r was sent to.
func Location(r *http.Request, forceHTTPS bool, path string) string {
	return Scheme(r, forceHTTPS) + "://" + r.Host + path
}
