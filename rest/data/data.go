package data

import (
	"context"

	"github.com/carlot-hq/carlot"
	"github.com/carlot-hq/carlot/model/car"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connector abstracts the link between the API layer and the service
// layer so route handlers can be exercised against a mock
// implementation in unit tests.
type Connector interface {
	// FindCars returns one page of cars matching the filter.
	FindCars(context.Context, car.Filter, int) ([]car.Car, error)

	// FindCarByID returns the car with the given ID, or nil if
	// it does not exist.
	FindCarByID(context.Context, primitive.ObjectID) (*car.Car, error)

	// InsertCar persists a new car, assigning its ID.
	InsertCar(context.Context, *car.Car) error

	// UpdateCar atomically applies the given non-empty change
	// set and returns the post-update record, or nil if no car
	// has the given ID.
	UpdateCar(context.Context, primitive.ObjectID, bson.M) (*car.Car, error)

	// DeleteCar removes the car with the given ID, reporting
	// whether a record was removed.
	DeleteCar(context.Context, primitive.ObjectID) (bool, error)
}

// DBConnector implements Connector against the database held by the
// environment it was constructed with.
type DBConnector struct {
	env carlot.Environment
}

// NewDBConnector constructs a Connector backed by the environment's
// database.
func NewDBConnector(env carlot.Environment) *DBConnector {
	return &DBConnector{env: env}
}

func (dc *DBConnector) FindCars(ctx context.Context, f car.Filter, page int) ([]car.Car, error) {
	return car.FindPage(ctx, dc.env, f, page)
}

func (dc *DBConnector) FindCarByID(ctx context.Context, id primitive.ObjectID) (*car.Car, error) {
	return car.FindOneID(ctx, dc.env, id)
}

func (dc *DBConnector) InsertCar(ctx context.Context, c *car.Car) error {
	return c.Insert(ctx, dc.env)
}

func (dc *DBConnector) UpdateCar(ctx context.Context, id primitive.ObjectID, changes bson.M) (*car.Car, error) {
	return car.UpdateOneID(ctx, dc.env, id, changes)
}

func (dc *DBConnector) DeleteCar(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return car.RemoveOneID(ctx, dc.env, id)
}
