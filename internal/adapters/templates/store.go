// Package templates provides domain.TemplateStore backends for certificate
// template documents: a local directory, an S3-compatible bucket, or an HTTP
// base URL.
package templates

import (
	"fmt"
	"net/http"
	"time"

	"certbot/internal/domain"
)

// MaxTemplateSize bounds how much of a template is read into memory.
const MaxTemplateSize = 20 << 20

// Config selects and configures a template store.
type Config struct {
	Provider string // fs, s3 or http
	Dir      string
	BaseURL  string
	S3       S3Config
}

// NewStore builds the configured TemplateStore.
func NewStore(cfg Config) (domain.TemplateStore, error) {
	switch cfg.Provider {
	case "", "fs":
		return NewDirStore(cfg.Dir)
	case "s3":
		return NewS3Store(cfg.S3)
	case "http":
		return NewHTTPStore(cfg.BaseURL, &http.Client{Timeout: 30 * time.Second})
	default:
		return nil, fmt.Errorf("unknown template provider %q", cfg.Provider)
	}
}
