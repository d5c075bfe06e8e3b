package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger)

	// Wire to store for automatic indexing on writes.
	storeHandle.SetSearchIndexer(svc)

	return svc, nil
}

// RebuildSearchIndexIfEmpty triggers an initial rebuild when the index has
// no documents but posts exist. Called after all services are wired.
func RebuildSearchIndexIfEmpty(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	posts, err := storeHandle.ListPosts(ctx)
	if err != nil || len(posts) == 0 {
		return
	}

	log.Info("Search index is empty but posts exist, triggering initial rebuild",
		"post_count", len(posts),
	)

	go func() {
		if err := searchService.RebuildIndex(context.Background()); err != nil {
			log.Error("Initial search rebuild failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search rebuild completed", "documents", count)
		}
	}()
}
