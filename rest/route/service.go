package route

import (
	"github.com/carlot-hq/carlot/rest/data"
	"github.com/evergreen-ci/gimlet"
)

// AttachHandler registers the car resource's routes on the given
// app. The app's prefix determines where the resource is mounted.
func AttachHandler(app *gimlet.APIApp, sc data.Connector) {
	app.AddRoute("/").Version(0).Get().RouteHandler(makeGetCars(sc))
	app.AddRoute("/").Version(0).Post().RouteHandler(makePostCar(sc))
	app.AddRoute("/{car_id}").Version(0).Get().RouteHandler(makeGetCar(sc))
	app.AddRoute("/{car_id}").Version(0).Put().RouteHandler(makePutCar(sc))
	app.AddRoute("/{car_id}").Version(0).Delete().RouteHandler(makeDeleteCar(sc))
}
