package storage

import (
	"net/url"
	"testing"
)

func TestRewriteHost(t *testing.T) {
	signed, _ := url.Parse("http://minio:9000/voice-transcripts/sessions/1/transcript.json?X-Amz-Signature=abc")

	tests := []struct {
		name      string
		publicURL string
		want      string
	}{
		{"no public url", "", "http://minio:9000/voice-transcripts/sessions/1/transcript.json?X-Amz-Signature=abc"},
		{"public host", "https://files.example.com", "https://files.example.com/voice-transcripts/sessions/1/transcript.json?X-Amz-Signature=abc"},
		{"public host with path", "https://example.com/storage", "https://example.com/storage/voice-transcripts/sessions/1/transcript.json?X-Amz-Signature=abc"},
		{"invalid public url", "::not a url", "http://minio:9000/voice-transcripts/sessions/1/transcript.json?X-Amz-Signature=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewriteHost(signed, tt.publicURL); got != tt.want {
				t.Errorf("rewriteHost() = %q, want %q", got, tt.want)
			}
		})
	}
}
