// Package contenttype detects media types of uploaded content.
package contenttype

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/gabriel-vasile/mimetype"
)

// ReadLimit is the number of leading bytes inspected.
const ReadLimit = 3072

// generic types are refined by the file extension when it is known.
var generic = []string{"application/octet-stream", "text/plain"}

type detector struct{}

// NewDetector creates a ContentTypeDetector matching magic numbers, falling back to file extensions.
func NewDetector() objects.ContentTypeDetector {
	return &detector{}
}

func (d *detector) Detect(r io.Reader, fileName string) (string, io.Reader, error) {
	head := make([]byte, ReadLimit)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("failed to read content head: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	contentType := detected.String()

	for _, g := range generic {
		if detected.Is(g) {
			if byExtension := mime.TypeByExtension(filepath.Ext(fileName)); byExtension != "" {
				contentType = byExtension
			}
			break
		}
	}

	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}
