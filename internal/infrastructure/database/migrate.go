package database

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/eslsoft/lingocast/internal/infrastructure/database/entschema"
)

// Migrate creates or updates every table the application uses.
func Migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("init migration: %w", err)
	}
	if err := m.Create(ctx, entschema.Tables...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
