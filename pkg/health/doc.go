// Package health serves liveness and readiness checks for the restify server.
//
// Readiness runs every named [CheckFunc] concurrently under one deadline and
// reports 503 when any of them fails. Store packages expose matching checks:
//
//	health.Mount(router, health.Checks{
//		"redis":    redis.Healthcheck(client),
//		"postgres": db.Healthcheck(pool),
//	})
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON via Accept: application/json or ?format=json.
package health
