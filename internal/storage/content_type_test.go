package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType_ProvidedTypeWins(t *testing.T) {
	got := DetectContentType("application/pdf", "resume.docx", nil)
	assert.Equal(t, "application/pdf", got)
}

func TestDetectContentType_FromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"resume.pdf", "application/pdf"},
		{"resume.PDF", "application/pdf"},
		{"notes.txt", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := DetectContentType("", tt.filename, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectContentType_SniffsContent(t *testing.T) {
	// PDF magic bytes
	data := bytes.NewReader([]byte("%PDF-1.7 rest of the document"))
	got := DetectContentType("", "noextension", data)
	assert.Equal(t, "application/pdf", got)
}

func TestDetectContentType_FallsBackToOctetStream(t *testing.T) {
	got := DetectContentType("", "noextension", nil)
	assert.Equal(t, "application/octet-stream", got)
}

func TestIsAllowedResumeType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"application/pdf; charset=binary", true},
		{"APPLICATION/PDF", true},
		{"application/msword", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"image/png", false},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowedResumeType(tt.contentType))
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("application/pdf"))
	assert.True(t, IsPDF("application/pdf; charset=binary"))
	assert.False(t, IsPDF("application/msword"))
	assert.False(t, IsPDF(""))
}
