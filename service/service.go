package service

import (
	"net/http"
	"time"

	"github.com/carlot-hq/carlot"
	"github.com/carlot-hq/carlot/rest/data"
	"github.com/carlot-hq/carlot/rest/route"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// GetServer produces an HTTP server instance for a handler.
func GetServer(addr string, n http.Handler) *http.Server {
	grip.Notice(message.Fields{
		"action":  "starting service",
		"service": addr,
		"process": grip.Name(),
	})

	return &http.Server{
		Addr:              addr,
		Handler:           n,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      time.Minute,
	}
}

// GetRouter assembles the car resource's routes and the
// application-wide middleware into a single handler. The car
// resource handler is mounted under the /cars prefix and reads and
// writes through the connection owned by the environment.
func GetRouter(env carlot.Environment) (http.Handler, error) {
	app := gimlet.NewApp()
	app.StrictSlash = true
	app.SetPrefix(carlot.APIRoutePrefix)
	app.SetDefaultVersion(0)
	app.AddMiddleware(NewCORSHandler())

	route.AttachHandler(app, data.NewDBConnector(env))

	handler, err := app.Handler()
	if err != nil {
		return nil, errors.Wrap(err, "resolving application routes")
	}

	return handler, nil
}
