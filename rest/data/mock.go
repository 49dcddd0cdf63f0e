package data

import (
	"bytes"
	"context"
	"sort"

	"github.com/carlot-hq/carlot/model/car"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockConnector implements Connector in memory for testing route
// handlers without a database. Setting StoredError makes every
// operation fail with that error.
type MockConnector struct {
	CachedCars  []car.Car
	StoredError error
}

func (mc *MockConnector) FindCars(_ context.Context, f car.Filter, page int) ([]car.Car, error) {
	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if page < 1 {
		page = 1
	}

	matched := []car.Car{}
	for _, c := range mc.CachedCars {
		if c.Price <= f.MinPrice || c.Price >= f.MaxPrice {
			continue
		}
		if f.Brand != "" && c.Brand != f.Brand {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})

	start := (page - 1) * car.PageSize
	if start >= len(matched) {
		return []car.Car{}, nil
	}
	end := start + car.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], nil
}

func (mc *MockConnector) FindCarByID(_ context.Context, id primitive.ObjectID) (*car.Car, error) {
	if mc.StoredError != nil {
		return nil, mc.StoredError
	}

	for i := range mc.CachedCars {
		if mc.CachedCars[i].ID == id {
			found := mc.CachedCars[i]
			return &found, nil
		}
	}

	return nil, nil
}

func (mc *MockConnector) InsertCar(_ context.Context, c *car.Car) error {
	if mc.StoredError != nil {
		return mc.StoredError
	}

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	mc.CachedCars = append(mc.CachedCars, *c)

	return nil
}

func (mc *MockConnector) UpdateCar(_ context.Context, id primitive.ObjectID, changes bson.M) (*car.Car, error) {
	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if len(changes) == 0 {
		return nil, errors.New("cannot apply an empty update")
	}

	for i := range mc.CachedCars {
		if mc.CachedCars[i].ID != id {
			continue
		}

		for key, value := range changes {
			switch key {
			case car.BrandKey:
				mc.CachedCars[i].Brand = value.(string)
			case car.MakeKey:
				mc.CachedCars[i].Make = value.(string)
			case car.YearKey:
				mc.CachedCars[i].Year = value.(int)
			case car.PriceKey:
				mc.CachedCars[i].Price = value.(int)
			case car.KmKey:
				mc.CachedCars[i].Km = value.(int)
			case car.Cm3Key:
				mc.CachedCars[i].Cm3 = value.(int)
			default:
				return nil, errors.Errorf("unknown field '%s'", key)
			}
		}

		updated := mc.CachedCars[i]
		return &updated, nil
	}

	return nil, nil
}

func (mc *MockConnector) DeleteCar(_ context.Context, id primitive.ObjectID) (bool, error) {
	if mc.StoredError != nil {
		return false, mc.StoredError
	}

	for i := range mc.CachedCars {
		if mc.CachedCars[i].ID == id {
			mc.CachedCars = append(mc.CachedCars[:i], mc.CachedCars[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}
