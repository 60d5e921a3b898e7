// internal/screen/form.go
//
// Harmony – interactive form screen.
//
// Context
//   A FormScreen mounts one submit.Controller for its lifetime.  Each round
//   prompts every field in declared order (password fields masked, other
//   fields pre-filled with the previous answer), then hands the bundle to the
//   controller.  Field errors are printed under their labels and the round
//   repeats.  A failed submission offers a retry, the screen's links, or quit.
//   Success ends the screen; the controller has already navigated.
//
//------------------------------------------------------------------------------

package screen

import (
	"context"

	"github.com/harmony/harcloud/internal/form"
	"github.com/harmony/harcloud/internal/logger"
	"github.com/harmony/harcloud/internal/message"
	"github.com/harmony/harcloud/internal/submit"
)

// Screen is one mounted view.  Run returns when the user leaves it.
type Screen interface {
	Run(ctx context.Context) error
}

// Link is an alternative destination offered after a failed submission.
type Link struct {
	Label string
	Route string
}

const (
	choiceRetry = "Try again"
	choiceQuit  = "Quit"
)

// FormScreen prompts for and submits one form.
type FormScreen struct {
	Schema    *form.Schema
	Client    submit.Poster
	Navigator submit.Navigator
	Driver    PromptDriver
	Printer   *message.Printer
	Links     []Link
}

// Run mounts a controller, loops until success or abort, then unmounts.
func (s *FormScreen) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).With("form", s.Schema.ID)

	ctrl, err := submit.New(submit.Options{
		Schema:    s.Schema,
		Client:    s.Client,
		Navigator: s.Navigator,
		Observer:  s.observer(ctx),
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer ctrl.Unmount()

	if s.Schema.Title != "" {
		if err := s.Driver.Info(ctx, s.Schema.Title); err != nil {
			return err
		}
	}

	values := form.Values{}
	for {
		if err := s.promptFields(ctx, values); err != nil {
			return err
		}

		out := ctrl.Submit(ctx, values)
		switch {
		case form.IsValidationError(out.Err()):
			s.printFieldErrors(ctx, out.Errors)
			continue
		case out.State.Status == submit.Succeeded:
			return nil
		case out.State.Status == submit.Failed:
			next, err := s.afterFailure(ctx)
			if err != nil || next {
				return err
			}
		}
	}
}

func (s *FormScreen) promptFields(ctx context.Context, values form.Values) error {
	for _, f := range s.Schema.Fields {
		cfg := InputConfig{Message: f.Label, Help: f.Placeholder}
		var (
			v   string
			err error
		)
		if f.Type == form.TypePassword {
			v, err = s.Driver.Password(ctx, cfg)
		} else {
			cfg.Default = values[f.Name]
			v, err = s.Driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		values[f.Name] = v
	}
	return nil
}

func (s *FormScreen) printFieldErrors(ctx context.Context, errs map[string]string) {
	for _, f := range s.Schema.Fields {
		if msg, ok := errs[f.Name]; ok {
			_ = s.Printer.Errorf(ctx, "%s: %s", f.Label, msg)
		}
	}
}

// afterFailure asks what to do next.  leave is true when the user followed a
// link.
func (s *FormScreen) afterFailure(ctx context.Context) (leave bool, err error) {
	options := make([]string, 0, len(s.Links)+2)
	options = append(options, choiceRetry)
	for _, l := range s.Links {
		options = append(options, l.Label)
	}
	options = append(options, choiceQuit)

	idx, err := s.Driver.Select(ctx, SelectConfig{Message: "What next?", Options: options})
	if err != nil {
		return false, err
	}
	switch {
	case idx <= 0:
		return false, nil
	case idx == len(options)-1:
		return false, ErrAborted
	default:
		s.Navigator.Navigate(s.Links[idx-1].Route)
		return true, nil
	}
}

// observer turns controller transitions into notices.
func (s *FormScreen) observer(ctx context.Context) submit.Observer {
	return func(st submit.State) {
		switch st.Status {
		case submit.Pending:
			_ = s.Printer.Infof(ctx, "%s", s.Schema.PendingLabel)
		case submit.Succeeded:
			_ = s.Printer.Post(ctx, message.Notice{Level: message.Success, Text: st.Message})
		case submit.Failed:
			_ = s.Printer.Errorf(ctx, "%s", st.Message)
		}
	}
}
