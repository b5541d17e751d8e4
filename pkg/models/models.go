package models

import (
	"time"
)

// PageResult represents the outcome of extracting one configured page
type PageResult struct {
	Index      int           `json:"index"`
	URL        string        `json:"url"`
	Values     []string      `json:"values"`
	Text       string        `json:"text"`
	OK         bool          `json:"ok"`
	Err        string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	StatusCode int           `json:"status_code,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Renderer   string        `json:"renderer"`
	ProxyUsed  string        `json:"proxy_used,omitempty"`
}
