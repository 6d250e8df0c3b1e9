package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP surface mounted on the application
// router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// RoutesFunc adapts a plain function to Handler.
type RoutesFunc func(*httprouter.Router)

func (f RoutesFunc) RegisterRoutes(r *httprouter.Router) {
	f(r)
}
