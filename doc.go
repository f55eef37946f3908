// Package restify is a small HTTP request pipeline: a body accumulator,
// content parsing, ordered route matching with groups and named event
// chains, and cookie-keyed sessions, composed by a Server that speaks
// plain net/http.
//
// # Quick Start
//
// Create a server with restify.New, register handlers and call Run:
//
//	srv := restify.New(
//	    restify.WithLogger(log),
//	    restify.WithHandlers(handlers.NewUsers(repo)),
//	)
//
//	if err := srv.Run(restify.Address(":8080")); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers and Stages
//
// Handlers implement the [Handler] interface to declare routes. A route is a
// chain of [Stage] functions; each stage either calls next or finishes the
// request itself:
//
//	func (h *UsersHandler) Routes(r restify.Router) {
//	    r.Group("/users", func(r restify.Router) {
//	        r.GET("/:id", h.show)
//	        r.PUT("/:id", h.auth, h.update)
//	    })
//	}
//
//	func (h *UsersHandler) show(req *restify.Request, res *restify.Response, next restify.Next) error {
//	    user, err := h.repo.Find(req.Context(), restify.Param[int64](req, "id"))
//	    if err != nil {
//	        return restify.ErrNotFound("user not found")
//	    }
//	    if err := res.JSON(http.StatusOK, user); err != nil {
//	        return err
//	    }
//	    return next()
//	}
//
// When the last stage calls next, the server stamps X-Response-Time, Date
// and the access-control headers and ends the response.
//
// # Matching
//
// Routes are tried in registration order. The first route matching both
// method and path wins. A path that matches only under other methods runs
// the MethodNotAllowed chain, whose default stage sets the Allow header from
// Request.AllowedMethods; anything else runs NotFound. Patterns accept
// ":name" and "{name}" parameters and a trailing "*" wildcard. Parameters
// are copied into the request data.
//
// # Request Data
//
// POST and PUT bodies are accumulated and parsed before dispatch:
// application/json into ordered [Values] with numbers kept as json.Number,
// everything else as a form-urlencoded string with bracket nesting. A body
// that fails to parse runs the ParseError chain (400, or 413 above the size
// cap).
//
// # Events
//
// Replace the built-in NotFound, MethodNotAllowed and ParseError chains
// with Server.On:
//
//	srv.On(restify.EventNotFound, func(req *restify.Request, res *restify.Response, next restify.Next) error {
//	    if err := res.JSON(http.StatusNotFound, map[string]string{"error": "no such route"}); err != nil {
//	        return err
//	    }
//	    return next()
//	})
//
// # Sessions
//
// With WithSessions configured, the session ID travels in the "id" cookie.
// Stores live in pkg/session: memory, file, Redis and PostgreSQL.
//
//	store, err := session.NewFileStore("/var/lib/app/sessions")
//	srv := restify.New(restify.WithSessions(store))
//
//	func login(req *restify.Request, res *restify.Response, next restify.Next) error {
//	    if err := sessions.Start(req, res); err != nil {
//	        return err
//	    }
//	    if err := sessions.Set(req, "user", req.String("user")); err != nil {
//	        return err
//	    }
//	    return next()
//	}
//
// # Errors
//
// A stage returning an error aborts the chain. The server answers with 500
// and the error message, or with the code and message of an [HTTPError].
// Panics are recovered the same way. Errors after the response ended are
// only logged.
//
// # Health Checks
//
// Server.Handler mounts /health/live and /health/ready next to the pipeline:
//
//	restify.New(
//	    restify.WithHealthCheck("redis", redis.Healthcheck(client)),
//	)
//
// # Graceful Shutdown
//
// Run listens for SIGINT and SIGTERM, drains in-flight requests within the
// shutdown timeout and then runs shutdown hooks:
//
//	srv.Run(
//	    restify.Address(":8080"),
//	    restify.StartupHook(sweeper.Start),
//	    restify.ShutdownHook(sweeper.Stop),
//	)
package restify
