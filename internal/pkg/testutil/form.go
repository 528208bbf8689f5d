package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

// NewMultipartRequest builds a multipart/form-data request with the given value fields and files.
func NewMultipartRequest(t *testing.T, method, url string, values map[string]string, files ...FormFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, value := range values {
		require.NoError(t, writer.WriteField(field, value))
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.FileName)
		require.NoError(t, err)

		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}
