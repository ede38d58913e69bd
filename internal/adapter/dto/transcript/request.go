package transcript

// RecordTranscriptRequest represents one fragment submitted over HTTP
type RecordTranscriptRequest struct {
	Text       string                 `json:"text" validate:"required,max=10000"`
	Confidence *float64               `json:"confidence,omitempty" validate:"omitempty,min=0,max=1"`
	IsFinal    *bool                  `json:"is_final" validate:"required"`
	DurationMs *int                   `json:"duration_ms,omitempty" validate:"omitempty,min=0"`
	Language   string                 `json:"language,omitempty" validate:"omitempty,max=10"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
