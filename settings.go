package carlot

import (
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

const (
	// DefaultPort is the port the web service binds to when no
	// override is given.
	DefaultPort = 3000

	// APIRoutePrefix is the path prefix the car resource is
	// mounted under.
	APIRoutePrefix = "/cars"
)

// DBSettings describes the connection to the backing database.
type DBSettings struct {
	URL string
	DB  string
}

// Settings holds the full configuration for the service. Both
// database fields are required; the process refuses to start
// without them.
type Settings struct {
	Database DBSettings
	Port     int
}

// Validate checks that all required settings are populated,
// filling defaults where they exist.
func (s *Settings) Validate() error {
	catcher := grip.NewBasicCatcher()

	if s.Database.URL == "" {
		catcher.Add(errors.New("database URL must not be empty"))
	}
	if s.Database.DB == "" {
		catcher.Add(errors.New("database name must not be empty"))
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}

	return catcher.Resolve()
}
