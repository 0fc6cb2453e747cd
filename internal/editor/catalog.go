package editor

import (
	"context"
	"fmt"
	"os"

	"github.com/orin-ai/agentdash/pkg/flow"
)

// CatalogSource loads the tool catalog for a new session.
type CatalogSource interface {
	Catalog(ctx context.Context) (*flow.Catalog, error)
}

// CatalogFunc adapts a function to CatalogSource.
type CatalogFunc func(ctx context.Context) (*flow.Catalog, error)

func (f CatalogFunc) Catalog(ctx context.Context) (*flow.Catalog, error) { return f(ctx) }

// StaticCatalog always returns the same catalog.
func StaticCatalog(c *flow.Catalog) CatalogSource {
	return CatalogFunc(func(context.Context) (*flow.Catalog, error) { return c, nil })
}

// FileCatalog reads a catalog document from path on every call so edits
// to the file show up in new sessions.
func FileCatalog(path string) CatalogSource {
	return CatalogFunc(func(context.Context) (*flow.Catalog, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tool catalog: %w", err)
		}
		return flow.ParseCatalog(data), nil
	})
}
