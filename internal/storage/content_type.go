package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// DetectContentType determines the MIME type of a file.
//
// Detection order: the explicitly provided type, then the file extension,
// then sniffing the first 512 bytes, then "application/octet-stream".
func DetectContentType(providedType, filename string, data io.Reader) string {
	if providedType != "" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	if data != nil {
		buffer := make([]byte, 512)
		n, err := io.ReadFull(data, buffer)
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return http.DetectContentType(buffer[:n])
		}
	}

	return "application/octet-stream"
}

// AllowedResumeTypes defines the MIME types accepted for resume uploads.
// PDF is the only format the analysis provider accepts; Word formats are
// accepted at upload and rejected with a clear message at analysis time.
var AllowedResumeTypes = map[string]bool{
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// IsAllowedResumeType checks if a content type is accepted for resume uploads.
func IsAllowedResumeType(contentType string) bool {
	return AllowedResumeTypes[baseContentType(contentType)]
}

// IsPDF returns true if the content type is a PDF document.
func IsPDF(contentType string) bool {
	return baseContentType(contentType) == "application/pdf"
}

// baseContentType strips parameters (e.g. charset) and normalizes case.
func baseContentType(contentType string) string {
	base := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(base))
}
