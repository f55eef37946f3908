// Package middlewares provides stages meant to be installed globally with
// restify.WithMiddleware. Global stages wrap every dispatch, including the
// not-found, method-not-allowed and parse-error chains.
//
// # Request ID
//
// RequestID assigns an ID to each request. An upstream X-Request-ID or
// X-Correlation-ID header is reused; otherwise a UUID is generated.
// The ID is echoed in the response and attached to the request context:
//
//	srv := restify.New(
//	    restify.WithLogger(logger.New(logger.WithExtractors(logger.FromContext))),
//	    restify.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into a *PanicError carrying the stack trace.
// The server already survives panics; Recover adds the typed error and the
// stack to the log record.
//
// # Timeout
//
// Timeout puts a deadline on the request context. Stages are never
// preempted, so only context-aware work such as session store calls stops
// early. A chain failing after the deadline is answered with 504.
//
// # CORS
//
// CORS answers preflight OPTIONS requests with 204 and adds Vary,
// credentials and expose headers to cross-origin responses:
//
//	srv := restify.New(
//	    restify.WithAllowOrigin("https://app.example.com"),
//	    restify.WithMiddleware(
//	        middlewares.CORS(
//	            middlewares.WithAllowOrigins("https://app.example.com"),
//	            middlewares.WithAllowCredentials(),
//	        ),
//	    ),
//	)
//
// # Access log
//
// AccessLog writes one record per request with method, path, status and
// duration.
//
// # Recommended Order
//
//	restify.WithMiddleware(
//	    middlewares.CORS(),                 // answer preflight before anything else
//	    middlewares.RequestID(),            // ID available to every later log line
//	    middlewares.AccessLog(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(5*time.Second),
//	)
package middlewares
