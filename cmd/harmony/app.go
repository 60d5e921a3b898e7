// cmd/harmony/app.go
//
// Screen loop.
//
// Context
// -------
// app.run prints the backend status line, then mounts the screen for the
// router's current route, runs it, and follows the navigation it queued.
// The loop ends at the dashboard, when a screen leaves without navigating,
// or when the user quits.  The visited routes are logged on exit.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/harmony/harcloud/internal/api"
	"github.com/harmony/harcloud/internal/form"
	"github.com/harmony/harcloud/internal/logger"
	"github.com/harmony/harcloud/internal/message"
	"github.com/harmony/harcloud/internal/metrics"
	"github.com/harmony/harcloud/internal/routing"
	"github.com/harmony/harcloud/internal/screen"
	"github.com/harmony/harcloud/internal/submit"
)

const (
	cmdStatus   = "status"
	cmdLogin    = "login"
	cmdRegister = "register"
)

var knownRoutes = []string{routing.RouteLogin, routing.RouteRegister, routing.RouteDashboard}

// startRoute maps a command word to the first screen.
func startRoute(cmd string) (string, error) {
	switch cmd {
	case "", cmdStatus, cmdLogin:
		return routing.RouteLogin, nil
	case cmdRegister:
		return routing.RouteRegister, nil
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

// pinger is the status-check slice of *api.Client.
type pinger interface {
	Ping(ctx context.Context) (string, error)
}

type backend interface {
	pinger
	submit.Poster
}

type app struct {
	client  backend
	driver  screen.PromptDriver
	printer *message.Printer
}

// run prints the backend status and, unless statusOnly, walks the screens.
func (a *app) run(ctx context.Context, start string, statusOnly bool) error {
	log := logger.FromContext(ctx)

	msg, err := a.client.Ping(ctx)
	if err != nil {
		metrics.BackendPingErrorsTotal.Inc()
		log.Warnw("backend status check failed", "err", err)
	}
	status := screen.StatusLine(msg, err)
	if err := a.driver.Info(ctx, status); err != nil {
		return err
	}
	if statusOnly {
		return nil
	}

	router := routing.NewRouter(start, knownRoutes, routing.DefaultAliases)
	defer func() { log.Infow("session ended", "routes", router.History()) }()

	route := router.Current()
	for {
		scr, err := a.mount(route, router, status)
		if err != nil {
			return err
		}
		log.Infow("screen mounted", "route", route)

		err = scr.Run(ctx)
		switch {
		case errors.Is(err, screen.ErrAborted):
			log.Infow("user quit", "route", route)
			return nil
		case err != nil:
			return err
		}

		if route == routing.RouteDashboard {
			return nil
		}
		next, ok := router.Take()
		if !ok {
			return nil
		}
		route = next
	}
}

// mount builds the screen registered for route.
func (a *app) mount(route string, nav submit.Navigator, status string) (screen.Screen, error) {
	formScreen := func(id string, links ...screen.Link) (screen.Screen, error) {
		schema, err := form.MustLookup(id)
		if err != nil {
			return nil, err
		}
		return &screen.FormScreen{
			Schema:    schema,
			Client:    a.client,
			Navigator: nav,
			Driver:    a.driver,
			Printer:   a.printer,
			Links:     links,
		}, nil
	}

	switch route {
	case routing.RouteLogin:
		return formScreen(form.LoginID, screen.Link{Label: "Create an account", Route: routing.RouteRegister})
	case routing.RouteRegister:
		return formScreen(form.RegisterID, screen.Link{Label: "Already have an account? Sign in", Route: routing.RouteLogin})
	case routing.RouteDashboard:
		return &screen.Dashboard{Driver: a.driver, Status: status}, nil
	default:
		return nil, fmt.Errorf("no screen for route %q", route)
	}
}

var _ backend = (*api.Client)(nil)
