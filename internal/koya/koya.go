package koya

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kozaktomas/koya-pay/internal/config"
	"go.uber.org/zap"
)

// Koya represents a client for the Koya Pay API
type Koya struct {
	Url        string
	parsedURL  *url.URL
	endpoints  config.EndpointSet
	httpClient *http.Client
	captureDir string
	logger     *zap.Logger
}

// resolveURL builds a full URL from the base API URL and the given path.
func (k *Koya) resolveURL(path string) string {
	if path == "" {
		return k.parsedURL.String()
	}
	return k.parsedURL.JoinPath(strings.Split(path, "/")...).String()
}

// SetCaptureDir enables API response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (k *Koya) SetCaptureDir(dir string) error {
	if dir == "" {
		k.captureDir = ""
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	k.captureDir = dir
	return nil
}

// captureResponse saves the API response body to a file if capturing is enabled.
func (k *Koya) captureResponse(op string, body []byte) {
	if k.captureDir == "" {
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.json", op, timestamp)
	path := filepath.Join(k.captureDir, filename)

	// Pretty-print JSON if possible
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err == nil {
		body = prettyJSON.Bytes()
	}

	if err := os.WriteFile(path, body, 0600); err != nil {
		k.logger.Warn("failed to capture response", zap.String("path", path), zap.Error(err))
	}
}

// Endpoints returns the endpoint set the client talks to.
func (k *Koya) Endpoints() config.EndpointSet {
	return k.endpoints
}

// NewKoya creates a new Koya Pay client. A nil logger disables logging.
func NewKoya(cfg *config.KoyaConfig, logger *zap.Logger) (*Koya, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Koya Pay URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid Koya Pay URL %q: scheme must be http or https", cfg.URL)
	}

	endpoints := cfg.Endpoints
	if endpoints.Match.Path == "" {
		endpoints = config.Endpoints(cfg.Legacy)
	}
	if cfg.Legacy {
		logger.Warn("using legacy Koya Pay endpoints",
			zap.String("match", endpoints.Match.Path),
			zap.String("update_location", endpoints.UpdateLocation.Path))
	}

	k := &Koya{
		Url:        parsed.String(),
		parsedURL:  parsed,
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	if cfg.CaptureDir != "" {
		if err := k.SetCaptureDir(cfg.CaptureDir); err != nil {
			return nil, err
		}
	}
	return k, nil
}
