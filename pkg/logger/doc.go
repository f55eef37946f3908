// Package logger builds [log/slog] loggers for the server and its stores.
//
// Loggers created by [New] write one JSON (or text) record per line and enrich
// every record with attributes pulled from the call's context by
// [ContextExtractor] functions. The request ID middleware stores its ID with
// [WithAttrs], and [FromContext] turns such attributes back into log fields:
//
//	log := logger.New(logger.WithExtractors(logger.FromContext))
//	ctx := logger.WithAttrs(ctx, slog.String("request_id", id))
//	log.InfoContext(ctx, "request handled") // carries request_id
//
// [NewWithSentry] additionally forwards warnings and errors to Sentry and
// falls back to plain output when no DSN is configured. [NewNope] discards
// everything and is the default wherever a logger is optional.
package logger
