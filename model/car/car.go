package car

import (
	"context"

	"github.com/carlot-hq/carlot"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car represents one vehicle for sale. The ID is assigned by the
// database on insert and is immutable thereafter.
type Car struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Brand string             `bson:"brand" json:"brand"`
	Make  string             `bson:"make" json:"make"`
	Year  int                `bson:"year" json:"year"`
	Price int                `bson:"price" json:"price"`
	Km    int                `bson:"km" json:"km"`
	Cm3   int                `bson:"cm3" json:"cm3"`
}

// Insert writes the car to the database, letting the database assign
// its ID, and records the assigned ID on the receiver.
func (c *Car) Insert(ctx context.Context, env carlot.Environment) error {
	res, err := env.DB().Collection(Collection).InsertOne(ctx, c)
	if err != nil {
		return errors.Wrap(err, "inserting car")
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.Errorf("inserted ID of unexpected type %T", res.InsertedID)
	}
	c.ID = id

	return nil
}
