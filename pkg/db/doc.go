// Package db opens PostgreSQL pools and applies migrations for the session store.
//
// [Open] wraps [github.com/jackc/pgx/v5/pgxpool] with a startup retry loop,
// [Migrate] applies embedded SQL migrations with [github.com/pressly/goose/v3],
// and [Healthcheck]/[Shutdown] adapt a pool to readiness checks and shutdown hooks.
//
//	pool, err := db.Open(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, session.Migrations, "migrations"); err != nil {
//		return err
//	}
//	store := session.NewPostgresStore(pool)
package db
