package model

import (
	"github.com/carlot-hq/carlot/model/car"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// APICar is the wire representation of a car record. All fields are
// pointers so that an omitted field can be told apart from a field
// explicitly set to its zero value.
type APICar struct {
	ID    *string `json:"id,omitempty"`
	Brand *string `json:"brand"`
	Make  *string `json:"make"`
	Year  *int    `json:"year"`
	Price *int    `json:"price"`
	Km    *int    `json:"km"`
	Cm3   *int    `json:"cm3"`
}

// BuildFromService populates the APICar from a service-layer car.
func (c *APICar) BuildFromService(dbCar car.Car) {
	c.ID = utility.ToStringPtr(dbCar.ID.Hex())
	c.Brand = utility.ToStringPtr(dbCar.Brand)
	c.Make = utility.ToStringPtr(dbCar.Make)
	c.Year = utility.ToIntPtr(dbCar.Year)
	c.Price = utility.ToIntPtr(dbCar.Price)
	c.Km = utility.ToIntPtr(dbCar.Km)
	c.Cm3 = utility.ToIntPtr(dbCar.Cm3)
}

// ToService validates the payload as a creation request and converts
// it to a service-layer car. Brand and make must be present and
// non-empty and every numeric field must be present. Any ID supplied
// by the caller is ignored; the database assigns one on insert.
func (c *APICar) ToService() (*car.Car, error) {
	catcher := grip.NewBasicCatcher()

	if utility.FromStringPtr(c.Brand) == "" {
		catcher.Add(errors.New("brand must be a non-empty string"))
	}
	if utility.FromStringPtr(c.Make) == "" {
		catcher.Add(errors.New("make must be a non-empty string"))
	}
	catcher.NewWhen(c.Year == nil, "year is required")
	catcher.NewWhen(c.Price == nil, "price is required")
	catcher.NewWhen(c.Km == nil, "km is required")
	catcher.NewWhen(c.Cm3 == nil, "cm3 is required")

	if catcher.HasErrors() {
		return nil, catcher.Resolve()
	}

	return &car.Car{
		Brand: utility.FromStringPtr(c.Brand),
		Make:  utility.FromStringPtr(c.Make),
		Year:  utility.FromIntPtr(c.Year),
		Price: utility.FromIntPtr(c.Price),
		Km:    utility.FromIntPtr(c.Km),
		Cm3:   utility.FromIntPtr(c.Cm3),
	}, nil
}

// APICarUpdate is a set of optional changes to an existing car
// record. A nil field means "leave this field alone"; a non-nil
// field, including one pointing at a zero value, is applied.
type APICarUpdate struct {
	Brand *string `json:"brand"`
	Make  *string `json:"make"`
	Year  *int    `json:"year"`
	Price *int    `json:"price"`
	Km    *int    `json:"km"`
	Cm3   *int    `json:"cm3"`
}

// SetDocument renders the explicitly provided fields as a database
// update document. The result is empty when the caller supplied no
// changes.
func (u *APICarUpdate) SetDocument() bson.M {
	changes := bson.M{}

	if u.Brand != nil {
		changes[car.BrandKey] = utility.FromStringPtr(u.Brand)
	}
	if u.Make != nil {
		changes[car.MakeKey] = utility.FromStringPtr(u.Make)
	}
	if u.Year != nil {
		changes[car.YearKey] = utility.FromIntPtr(u.Year)
	}
	if u.Price != nil {
		changes[car.PriceKey] = utility.FromIntPtr(u.Price)
	}
	if u.Km != nil {
		changes[car.KmKey] = utility.FromIntPtr(u.Km)
	}
	if u.Cm3 != nil {
		changes[car.Cm3Key] = utility.FromIntPtr(u.Cm3)
	}

	return changes
}

// APICarCollection wraps a list of cars in a named field rather than
// returning a bare JSON array, which would be exposed to response
// hijacking in older browsers.
type APICarCollection struct {
	Cars []APICar `json:"cars"`
}

// BuildFromService populates the collection from service-layer cars.
// The resulting Cars slice is never nil.
func (c *APICarCollection) BuildFromService(dbCars []car.Car) {
	c.Cars = make([]APICar, 0, len(dbCars))
	for _, dbCar := range dbCars {
		apiCar := APICar{}
		apiCar.BuildFromService(dbCar)
		c.Cars = append(c.Cars, apiCar)
	}
}
