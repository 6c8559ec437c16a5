package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/koya-pay/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var endpointsYAML []byte

type Config struct {
	Koya   KoyaConfig
	Web    WebConfig
	Camera CameraConfig
}

type KoyaConfig struct {
	URL        string        // base API URL, defaults to http://localhost:5000/api
	Timeout    time.Duration // per-request timeout
	CaptureDir string        // directory to save API responses for fixtures (optional)
	Legacy     bool          // use the legacy endpoint set instead of the canonical one
	Endpoints  EndpointSet
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins, localhost is always allowed
}

type CameraConfig struct {
	Dir    string // directory a webcam tool writes snapshots into
	Width  int    // capture canvas width (default 640)
	Height int    // capture canvas height (default 480)
}

// Update-location body shapes.
const (
	BodyLocation       = "location"         // {"location": "..."}
	BodyFaceIDLocation = "face_id_location" // {"faceId": "...", "location": "..."}
)

// Endpoint describes one remote operation relative to the base URL.
// Path may contain an {id} placeholder.
type Endpoint struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`
	Body   string `yaml:"body,omitempty"`
}

// PathFor returns the endpoint path with {id} replaced.
func (e Endpoint) PathFor(id string) string {
	return strings.ReplaceAll(e.Path, "{id}", id)
}

type EndpointSet struct {
	Upload         Endpoint `yaml:"upload"`
	ListEntries    Endpoint `yaml:"list_entries"`
	AppendEntry    Endpoint `yaml:"append_entry"`
	UpdateLocation Endpoint `yaml:"update_location"`
	Match          Endpoint `yaml:"match"`
	Health         Endpoint `yaml:"health"`
}

type endpointsFile struct {
	Canonical EndpointSet `yaml:"canonical"`
	Legacy    EndpointSet `yaml:"legacy"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean, false when unset or invalid.
func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Endpoints returns the canonical or legacy endpoint set from the embedded table.
func Endpoints(legacy bool) EndpointSet {
	var f endpointsFile
	if err := yaml.Unmarshal(endpointsYAML, &f); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded endpoints.yaml: " + err.Error())
	}
	if legacy {
		return f.Legacy
	}
	return f.Canonical
}

func Load() *Config {
	legacy := envBool("KOYA_LEGACY_ENDPOINTS")

	return &Config{
		Koya: KoyaConfig{
			URL:        strings.TrimRight(envString("KOYA_API_URL", constants.DefaultAPIURL), "/"),
			Timeout:    time.Duration(envInt("KOYA_TIMEOUT_SECONDS", int(constants.DefaultRequestTimeout/time.Second))) * time.Second,
			CaptureDir: os.Getenv("KOYA_CAPTURE_DIR"),
			Legacy:     legacy,
			Endpoints:  Endpoints(legacy),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", constants.DefaultWebHost),
			Port:           envInt("WEB_PORT", constants.DefaultWebPort),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Camera: CameraConfig{
			Dir:    os.Getenv("CAMERA_DIR"),
			Width:  envInt("CAMERA_WIDTH", constants.DefaultFrameWidth),
			Height: envInt("CAMERA_HEIGHT", constants.DefaultFrameHeight),
		},
	}
}
