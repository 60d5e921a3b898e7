// internal/config/defaults.go
//
// Built-in defaults, loaded as the lowest koanf layer.  The backend origin
// matches the development server the browser build proxied `/api` to.

package config

import (
	"path/filepath"
	"time"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 30 * time.Second
)

func defaults(root string) map[string]any {
	return map[string]any{
		"api.base_url":        DefaultBaseURL,
		"api.timeout":         DefaultTimeout.String(),
		"log.dir":             filepath.Join(root, "logs"),
		"log.tee":             false,
		"metrics.listen_addr": "",
		"forms.dir":           filepath.Join(root, "conf", "forms"),
	}
}
