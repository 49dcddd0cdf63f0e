package route

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/carlot-hq/carlot/model/car"
	"github.com/carlot-hq/carlot/rest/data"
	"github.com/carlot-hq/carlot/rest/model"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultMinPrice = 0
	defaultMaxPrice = 100000
)

// parseCarID decodes the car_id route variable, rejecting strings
// that are not structurally valid IDs before they reach the
// database.
func parseCarID(r *http.Request) (primitive.ObjectID, error) {
	idStr := gimlet.GetVars(r)["car_id"]

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("'%s' is not a valid car ID", idStr),
		}
	}

	return id, nil
}

///////////////////////////////////////////////////////////////////////
//
// GET /cars

type carsGetHandler struct {
	filter car.Filter
	page   int

	sc data.Connector
}

func makeGetCars(sc data.Connector) gimlet.RouteHandler {
	return &carsGetHandler{sc: sc}
}

func (h *carsGetHandler) Factory() gimlet.RouteHandler {
	return &carsGetHandler{sc: h.sc}
}

// Parse reads the price/brand filter and page number from the query
// string, applying defaults for anything not given.
func (h *carsGetHandler) Parse(ctx context.Context, r *http.Request) error {
	vals := r.URL.Query()

	h.filter = car.Filter{
		MinPrice: defaultMinPrice,
		MaxPrice: defaultMaxPrice,
		Brand:    vals.Get("brand"),
	}
	h.page = 1

	var err error
	if minPrice := vals.Get("min_price"); minPrice != "" {
		h.filter.MinPrice, err = strconv.Atoi(minPrice)
		if err != nil {
			return gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "invalid min_price specified",
			}
		}
	}
	if maxPrice := vals.Get("max_price"); maxPrice != "" {
		h.filter.MaxPrice, err = strconv.Atoi(maxPrice)
		if err != nil {
			return gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "invalid max_price specified",
			}
		}
	}
	if page := vals.Get("page"); page != "" {
		h.page, err = strconv.Atoi(page)
		if err != nil {
			return gimlet.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "invalid page specified",
			}
		}
	}

	return nil
}

// Run returns one page of cars matching the filter, wrapped in a
// collection envelope. An out-of-range page yields an empty
// collection.
func (h *carsGetHandler) Run(ctx context.Context) gimlet.Responder {
	cars, err := h.sc.FindCars(ctx, h.filter, h.page)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "finding cars"))
	}

	collection := &model.APICarCollection{}
	collection.BuildFromService(cars)

	return gimlet.NewJSONResponse(collection)
}

///////////////////////////////////////////////////////////////////////
//
// POST /cars

type carPostHandler struct {
	apiCar model.APICar

	sc data.Connector
}

func makePostCar(sc data.Connector) gimlet.RouteHandler {
	return &carPostHandler{sc: sc}
}

func (h *carPostHandler) Factory() gimlet.RouteHandler {
	return &carPostHandler{sc: h.sc}
}

// Parse reads the new car from the JSON request body.
func (h *carPostHandler) Parse(ctx context.Context, r *http.Request) error {
	body := utility.NewRequestReader(r)
	defer body.Close()

	if err := utility.ReadJSON(body, &h.apiCar); err != nil {
		return errors.Wrap(err, "reading car from JSON request body")
	}

	return nil
}

// Run validates the payload, persists the car, and returns the
// created record as read back from the database.
func (h *carPostHandler) Run(ctx context.Context) gimlet.Responder {
	newCar, err := h.apiCar.ToService()
	if err != nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    errors.Wrap(err, "invalid car").Error(),
		})
	}

	if err = h.sc.InsertCar(ctx, newCar); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "inserting car"))
	}

	created, err := h.sc.FindCarByID(ctx, newCar.ID)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding created car '%s'", newCar.ID.Hex()))
	}
	if created == nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Errorf("created car '%s' not found", newCar.ID.Hex()))
	}

	apiCar := &model.APICar{}
	apiCar.BuildFromService(*created)

	responder := gimlet.NewJSONResponse(apiCar)
	if err = responder.SetStatus(http.StatusCreated); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting HTTP status code to %d", http.StatusCreated))
	}

	return responder
}

///////////////////////////////////////////////////////////////////////
//
// GET /cars/{car_id}

type carGetHandler struct {
	carID primitive.ObjectID

	sc data.Connector
}

func makeGetCar(sc data.Connector) gimlet.RouteHandler {
	return &carGetHandler{sc: sc}
}

func (h *carGetHandler) Factory() gimlet.RouteHandler {
	return &carGetHandler{sc: h.sc}
}

func (h *carGetHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.carID, err = parseCarID(r)

	return err
}

func (h *carGetHandler) Run(ctx context.Context) gimlet.Responder {
	found, err := h.sc.FindCarByID(ctx, h.carID)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding car '%s'", h.carID.Hex()))
	}
	if found == nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("Car %s not found", h.carID.Hex()),
		})
	}

	apiCar := &model.APICar{}
	apiCar.BuildFromService(*found)

	return gimlet.NewJSONResponse(apiCar)
}

///////////////////////////////////////////////////////////////////////
//
// PUT /cars/{car_id}

type carPutHandler struct {
	carID  primitive.ObjectID
	update model.APICarUpdate

	sc data.Connector
}

func makePutCar(sc data.Connector) gimlet.RouteHandler {
	return &carPutHandler{sc: sc}
}

func (h *carPutHandler) Factory() gimlet.RouteHandler {
	return &carPutHandler{sc: h.sc}
}

// Parse reads the car ID and the partial update from the request.
func (h *carPutHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	if h.carID, err = parseCarID(r); err != nil {
		return err
	}

	body := utility.NewRequestReader(r)
	defer body.Close()

	if err = utility.ReadJSON(body, &h.update); err != nil {
		return errors.Wrap(err, "reading car update from JSON request body")
	}

	return nil
}

// Run applies the explicitly provided fields in a single atomic
// update and returns the resulting record. An update with no
// provided fields returns the existing record unchanged.
func (h *carPutHandler) Run(ctx context.Context) gimlet.Responder {
	var (
		updated *car.Car
		err     error
	)

	if changes := h.update.SetDocument(); len(changes) > 0 {
		updated, err = h.sc.UpdateCar(ctx, h.carID, changes)
	} else {
		updated, err = h.sc.FindCarByID(ctx, h.carID)
	}
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "updating car '%s'", h.carID.Hex()))
	}
	if updated == nil {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("car %s not found", h.carID.Hex()),
		})
	}

	apiCar := &model.APICar{}
	apiCar.BuildFromService(*updated)

	return gimlet.NewJSONResponse(apiCar)
}

///////////////////////////////////////////////////////////////////////
//
// DELETE /cars/{car_id}

type carDeleteHandler struct {
	carID primitive.ObjectID

	sc data.Connector
}

func makeDeleteCar(sc data.Connector) gimlet.RouteHandler {
	return &carDeleteHandler{sc: sc}
}

func (h *carDeleteHandler) Factory() gimlet.RouteHandler {
	return &carDeleteHandler{sc: h.sc}
}

func (h *carDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.carID, err = parseCarID(r)

	return err
}

func (h *carDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	deleted, err := h.sc.DeleteCar(ctx, h.carID)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "deleting car '%s'", h.carID.Hex()))
	}
	if !deleted {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("car %s not found", h.carID.Hex()),
		})
	}

	responder := gimlet.NewJSONResponse(struct{}{})
	if err = responder.SetStatus(http.StatusNoContent); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting HTTP status code to %d", http.StatusNoContent))
	}

	return responder
}
