package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/media/images"
	"github.com/inkwellapp/inkwell-server/internal/photos"
	"github.com/inkwellapp/inkwell-server/internal/photos/unsplash"
)

// ProvideImageStorage provides the upload storage for avatars and featured images.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(filepath.Join(cfg.Data.BasePath, "uploads"), cfg.Server.PublicURL)
	if err != nil {
		return nil, err
	}

	log.Info("Upload storage initialized", "base_url", cfg.Server.PublicURL)

	return storage, nil
}

// PhotoCacheHandle wraps the photo search cache with shutdown capability.
// The cache is nil when photo search is disabled.
type PhotoCacheHandle struct {
	*photos.Cache
}

// Shutdown implements do.Shutdownable.
func (h *PhotoCacheHandle) Shutdown() error {
	if h.Cache == nil {
		return nil
	}
	return h.Close()
}

// ProvidePhotoCache provides the Badger-backed photo search cache.
// Returns an empty handle when no Unsplash access key is configured.
func ProvidePhotoCache(i do.Injector) (*PhotoCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Unsplash.AccessKey == "" {
		return &PhotoCacheHandle{}, nil
	}

	cache, err := photos.NewCache(filepath.Join(cfg.Data.BasePath, "cache", "photos"), cfg.Unsplash.CacheTTL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Photo cache initialized", "ttl", cfg.Unsplash.CacheTTL)

	return &PhotoCacheHandle{Cache: cache}, nil
}

// ProvideUnsplashClient provides the Unsplash API client, or nil when photo
// search is disabled.
func ProvideUnsplashClient(i do.Injector) (*unsplash.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Unsplash.AccessKey == "" {
		log.Info("Photo search disabled, no Unsplash access key configured")
		return nil, nil
	}

	return unsplash.New(cfg.Unsplash.AccessKey, log.Logger), nil
}
