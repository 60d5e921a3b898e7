// internal/screen/dashboard.go
//
// Landing screen shown after sign-in, plus the backend status line.
//
// Context
//   The dashboard is informational: it repeats the backend status line and
//   prints the analyzer landing text.  The screen loop in cmd/harmony stops
//   once it has run.
//
//------------------------------------------------------------------------------

package screen

import (
	"context"
)

// Dashboard is the landing view reached after sign-in.
type Dashboard struct {
	Driver PromptDriver
	Status string // backend status line, printed first when set
}

var dashboardLines = []string{
	"HAR-Cloud",
	"",
	"Activity Analyzer",
	"Upload an image to detect human activity",
	"",
	"Supported: JPG, PNG • Max: 5MB",
}

// Run prints the landing text.
func (d *Dashboard) Run(ctx context.Context) error {
	if d.Status != "" {
		if err := d.Driver.Info(ctx, d.Status); err != nil {
			return err
		}
	}
	for _, line := range dashboardLines {
		if err := d.Driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// StatusLine renders the outcome of a backend status check.
func StatusLine(msg string, err error) string {
	if err != nil {
		return "Backend Connection Error: " + err.Error()
	}
	return "Backend Status: " + msg
}
