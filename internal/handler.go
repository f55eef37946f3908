package internal

// Next continues a chain with the following stage.
// Calling it twice from the same stage returns ErrNextCalledTwice.
type Next func() error

// Stage is one step of a handler chain. A stage either calls next to hand
// over or finishes the request itself, typically by ending res.
// Returning an error aborts the chain; the server turns it into a 500
// (or the code of an *HTTPError) unless the response has already ended.
//
// Example:
//
//	func auth(req *restify.Request, res *restify.Response, next restify.Next) error {
//	    if !req.HasSession() {
//	        return restify.ErrUnauthorized("login required")
//	    }
//	    return next()
//	}
type Stage func(req *Request, res *Response, next Next) error

// Handler declares routes on a router.
//
// Example:
//
//	type UserHandler struct {
//	    sessions *restify.SessionManager
//	}
//
//	func (h *UserHandler) Routes(r restify.Router) {
//	    r.Group("/users", func(r restify.Router) {
//	        r.GET("/:id", h.show)
//	        r.PUT("/:id", h.update)
//	    })
//	}
type Handler interface {
	Routes(r Router)
}

// runChain runs stages in order. final runs after the last stage calls next.
func runChain(chain []Stage, req *Request, res *Response, final Next) error {
	var step func(i int) error
	step = func(i int) error {
		if i == len(chain) {
			if final == nil {
				return nil
			}
			return final()
		}
		called := false
		return chain[i](req, res, func() error {
			if called {
				return ErrNextCalledTwice
			}
			called = true
			return step(i + 1)
		})
	}
	return step(0)
}
