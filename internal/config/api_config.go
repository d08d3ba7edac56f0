package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar = "PORTAL_API_URL"
	apiTimeoutVar = "PORTAL_API_TIMEOUT"

	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultTimeout    = 15 * time.Second
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
}

type API struct {
	file *FileConfig
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the backend root, always with a trailing slash so
// relative endpoint paths resolve beneath it.
func (a API) GetAPIBaseURL() string {
	base := GetEnv(apiBaseURLVar, fileValue(a.file, func(f *FileConfig) string { return f.API.BaseURL }, defaultAPIBaseURL))
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

func (a API) GetRequestTimeout() time.Duration {
	raw := GetEnv(apiTimeoutVar, fileValue(a.file, func(f *FileConfig) string { return f.API.Timeout }, ""))
	if raw == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}
