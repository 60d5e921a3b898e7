// internal/message/message.go
//
// Harmony – user notifications.
//
// Context
//   Screens report submission progress and outcomes as Notices.  A Printer
//   renders them as single lines on the terminal and records each one in the
//   structured log, so a support session can reconstruct what the user saw.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/harmony/harcloud/internal/logger"
)

// Level classifies a Notice.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// marker prefixes the terminal line for each level.
func (l Level) marker() string {
	switch l {
	case Success:
		return "✔"
	case Error:
		return "✖"
	default:
		return "•"
	}
}

// Notice is one line of feedback.
type Notice struct {
	Level Level
	Text  string
}

// Printer writes Notices to w.  Safe for concurrent use.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// Post writes n and logs it.  Empty notices are dropped.
func (p *Printer) Post(ctx context.Context, n Notice) error {
	if n.Text == "" {
		return nil
	}
	logger.FromContext(ctx).Debugw("notice", "level", n.Level.String(), "text", n.Text)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.w, "%s %s\n", n.Level.marker(), n.Text)
	return err
}

// Infof posts an Info notice.
func (p *Printer) Infof(ctx context.Context, format string, args ...any) error {
	return p.Post(ctx, Notice{Level: Info, Text: fmt.Sprintf(format, args...)})
}

// Errorf posts an Error notice.
func (p *Printer) Errorf(ctx context.Context, format string, args ...any) error {
	return p.Post(ctx, Notice{Level: Error, Text: fmt.Sprintf(format, args...)})
}
