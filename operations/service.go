package operations

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlot-hq/carlot"
	"github.com/carlot-hq/carlot/service"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	dbURLFlagName  = "db-url"
	dbNameFlagName = "db-name"
	portFlagName   = "port"

	shutdownTimeout = 10 * time.Second
)

// Service returns the command for running carlot services.
func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run carlot services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}

func startWebService() cli.Command {
	return cli.Command{
		Name:  "web",
		Usage: "start the car catalogue API server",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   dbURLFlagName,
				EnvVar: "DB_URL",
				Usage:  "connection URL for the backing database (required)",
			},
			cli.StringFlag{
				Name:   dbNameFlagName,
				EnvVar: "DB_NAME",
				Usage:  "name of the database to use (required)",
			},
			cli.IntFlag{
				Name:   portFlagName,
				EnvVar: "PORT",
				Value:  carlot.DefaultPort,
				Usage:  "port for the web service to listen on",
			},
		},
		Action: func(c *cli.Context) error {
			settings := &carlot.Settings{
				Database: carlot.DBSettings{
					URL: c.String(dbURLFlagName),
					DB:  c.String(dbNameFlagName),
				},
				Port: c.Int(portFlagName),
			}
			if err := settings.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go listenForTermination(cancel)

			env, err := carlot.NewEnvironment(ctx, settings)
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			defer func() {
				closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer closeCancel()
				grip.Error(message.WrapError(env.Close(closeCtx), message.Fields{
					"message": "closing environment",
				}))
			}()

			handler, err := service.GetRouter(env)
			if err != nil {
				return errors.Wrap(err, "building router")
			}

			srv := service.GetServer(fmt.Sprintf(":%d", settings.Port), handler)

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.ListenAndServe()
			}()

			select {
			case err = <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "running web service")
				}
			case <-ctx.Done():
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer shutdownCancel()
				if err = srv.Shutdown(shutdownCtx); err != nil {
					return errors.Wrap(err, "shutting down web service")
				}
			}

			grip.Info("web service terminated")
			return nil
		},
	}
}

// listenForTermination cancels the service's context as soon as an
// interrupt or termination signal arrives.
func listenForTermination(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	grip.Info(message.Fields{
		"message": "terminating service",
		"signal":  sig.String(),
	})
	cancel()
}
