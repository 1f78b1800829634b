package s3_test

import (
	"testing"

	"hallseat/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		url    string
		want   string
	}{
		{"own object", "https://cdn.hall.edu", "https://cdn.hall.edu/applications/a1/doc.pdf", "applications/a1/doc.pdf"},
		{"trailing slash domain", "https://cdn.hall.edu/", "https://cdn.hall.edu/applications/doc.pdf", "applications/doc.pdf"},
		{"foreign url", "https://cdn.hall.edu", "https://elsewhere.com/doc.pdf", ""},
		{"no domain", "", "https://cdn.hall.edu/doc.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3.ObjectKeyFromURL(tt.domain, tt.url))
		})
	}
}
