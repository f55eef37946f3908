// Package internal implements the restify request pipeline.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/restify" instead, which re-exports the public API.
//
// # Core Types
//
//   - Server: composition root; turns a Transport into a Request and Response,
//     waits for the body, dispatches and ends the response
//   - Request: headers, raw and parsed body, path params and the session ID
//   - Response: buffered status, headers, cookies and body, flushed once by End
//   - RouteTable: ordered routes with build-time prefix groups and named event chains
//   - Stage / Next: one step of a handler chain and its continuation
//   - SessionManager: cookie-keyed key/value bags over a pkg/session Store
//
// # Request Lifecycle
//
// Serve creates the request and feeds the body accumulator. Only PUT and
// POST read a body: with a content-length the body completes once that many
// bytes arrived, without one the first chunk is the whole body, and an
// unparsable length waits for the end of the stream. The raw body is then
// parsed as JSON (content-type exactly "application/json") or as form data.
//
// Completion and parse failures are queued as events. Once the server
// subscribes, an end event dispatches through the route table and an error
// event runs the ParseError chain.
//
// # Dispatch
//
// Routes are scanned in insertion order. The first route matching both path
// and method wins. Otherwise, a route matching the path alone yields
// MethodNotAllowed (with an Allow header) and no match at all yields
// NotFound. Both run named event chains that can be replaced with On:
//
//	srv.On(restify.EventNotFound, func(req *restify.Request, res *restify.Response, next restify.Next) error {
//	    if err := res.JSON(http.StatusNotFound, map[string]string{"error": "no such route"}); err != nil {
//	        return err
//	    }
//	    return next()
//	})
//
// Calling next from the last stage stamps X-Response-Time, Date and the CORS
// headers and ends the response. A stage that returns an error or panics gets
// a 500 response whose body is the error message, unless it already ended
// the response. A chain that returns without ending is ended by the server.
//
// # Concurrency
//
// A request is driven by one goroutine at a time. The route table must be
// complete before serving starts and is read-only afterwards.
package internal
