package cache

import (
	"context"
	"fmt"

	"nutritrack/internal/infrastructure/config"
)

// New 依設定建立快取後端，快取關閉時回傳 nil
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		svc, err := NewService(ctx, cfg.Cache, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "memory", "":
		return NewManager(cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
