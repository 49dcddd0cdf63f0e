package carlot

import (
	"context"
	"sync"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Environment provides application-level state shared by all
// requests, chiefly the database client. It is constructed once at
// startup and passed explicitly to the data layer rather than held
// as ambient global state, so tests can substitute their own.
type Environment interface {
	// Settings returns the configuration the environment was
	// built with.
	Settings() *Settings

	// Client returns the shared database client. The client is
	// safe for concurrent use.
	Client() *mongo.Client

	// DB returns a handle to the configured database.
	DB() *mongo.Database

	// Close disconnects the database client. In-flight
	// operations behave per the driver's shutdown contract.
	Close(context.Context) error
}

type envState struct {
	settings *Settings
	client   *mongo.Client
	mu       sync.RWMutex
}

// NewEnvironment constructs an Environment from validated settings,
// connecting to the configured database instance and verifying the
// connection with a ping.
func NewEnvironment(ctx context.Context, settings *Settings) (Environment, error) {
	if settings == nil {
		return nil, errors.New("cannot construct environment from nil settings")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}

	e := &envState{settings: settings}
	if err := e.initDB(ctx); err != nil {
		return nil, errors.Wrap(err, "configuring database connection")
	}

	return e, nil
}

func (e *envState) initDB(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(e.settings.Database.URL))
	if err != nil {
		return errors.Wrap(err, "constructing database client")
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	e.client = client

	grip.Info(message.Fields{
		"message": "connected to database",
		"db":      e.settings.Database.DB,
	})

	return nil
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client
}

func (e *envState) DB() *mongo.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client.Database(e.settings.Database.DB)
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}

	err := e.client.Disconnect(ctx)
	e.client = nil

	return errors.Wrap(err, "disconnecting from database")
}
