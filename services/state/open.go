package state

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"cinebox/config"
)

// Open builds the store selected by the storage settings.
func Open(ctx context.Context, cfg config.StorageSettings) (Store, error) {
	switch cfg.Backend {
	case config.StorageFile, "":
		return NewFileStore(afero.NewOsFs(), cfg.DataDir)
	case config.StorageSQLite:
		return OpenSQLite(cfg.DataDir)
	case config.StorageRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
