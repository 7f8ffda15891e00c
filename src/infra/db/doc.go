// Package db provides the PostgreSQL connection pool, transactions and schema setup.
//
// Example usage:
//
//	pg, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//
//	if err := pg.Migrate(ctx); err != nil {
//	    return err
//	}
package db
