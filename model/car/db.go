package car

import (
	"context"

	"github.com/carlot-hq/carlot"
	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds all car records.
const Collection = "cars"

// PageSize is the fixed number of records returned per page by
// FindPage.
const PageSize = 25

var (
	IDKey    = bsonutil.MustHaveTag(Car{}, "ID")
	BrandKey = bsonutil.MustHaveTag(Car{}, "Brand")
	MakeKey  = bsonutil.MustHaveTag(Car{}, "Make")
	YearKey  = bsonutil.MustHaveTag(Car{}, "Year")
	PriceKey = bsonutil.MustHaveTag(Car{}, "Price")
	KmKey    = bsonutil.MustHaveTag(Car{}, "Km")
	Cm3Key   = bsonutil.MustHaveTag(Car{}, "Cm3")
)

// Filter restricts the cars returned by FindPage. Price bounds are
// exclusive; a zero-value Brand means no brand restriction.
type Filter struct {
	MinPrice int
	MaxPrice int
	Brand    string
}

// Query renders the filter as a database query document.
func (f Filter) Query() bson.M {
	q := bson.M{
		PriceKey: bson.M{"$gt": f.MinPrice, "$lt": f.MaxPrice},
	}
	if f.Brand != "" {
		q[BrandKey] = f.Brand
	}

	return q
}

// FindPage returns one page of cars matching the filter, sorted by
// descending ID so the most recently inserted records come first.
// Pages are 1-indexed; a page past the end of the result set yields
// an empty slice, not an error.
func FindPage(ctx context.Context, env carlot.Environment, f Filter, page int) ([]Car, error) {
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: IDKey, Value: -1}}).
		SetSkip(int64((page - 1) * PageSize)).
		SetLimit(PageSize)

	cursor, err := env.DB().Collection(Collection).Find(ctx, f.Query(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding cars")
	}

	cars := []Car{}
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, errors.Wrap(err, "decoding cars")
	}

	return cars, nil
}

// FindOneID returns the car with the given ID, or nil if no such car
// exists.
func FindOneID(ctx context.Context, env carlot.Environment, id primitive.ObjectID) (*Car, error) {
	c := &Car{}
	err := env.DB().Collection(Collection).FindOne(ctx, bson.M{IDKey: id}).Decode(c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "finding car '%s'", id.Hex())
	}

	return c, nil
}

// UpdateOneID atomically applies the given field changes to the car
// with the given ID and returns the post-update record. It returns
// nil if no such car exists. The changes document must not be empty.
func UpdateOneID(ctx context.Context, env carlot.Environment, id primitive.ObjectID, changes bson.M) (*Car, error) {
	if len(changes) == 0 {
		return nil, errors.New("cannot apply an empty update")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	c := &Car{}
	err := env.DB().Collection(Collection).FindOneAndUpdate(ctx,
		bson.M{IDKey: id},
		bson.M{"$set": changes},
		opts,
	).Decode(c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "updating car '%s'", id.Hex())
	}

	return c, nil
}

// RemoveOneID deletes the car with the given ID, reporting whether a
// record was actually removed.
func RemoveOneID(ctx context.Context, env carlot.Environment, id primitive.ObjectID) (bool, error) {
	res, err := env.DB().Collection(Collection).DeleteOne(ctx, bson.M{IDKey: id})
	if err != nil {
		return false, errors.Wrapf(err, "deleting car '%s'", id.Hex())
	}

	return res.DeletedCount == 1, nil
}
