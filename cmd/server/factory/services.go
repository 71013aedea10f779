package factory

import (
	"errors"
	"fmt"

	"github.com/PhotoSearch/internal/app"
	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/pkg/config"
)

// NewPhotoRepository creates the repository. archive may be nil.
func NewPhotoRepository(
	client domain.RemoteClient,
	mapper domain.ResponseMapper,
	archive domain.PageArchive,
) (domain.PhotoRepository, error) {
	if client == nil {
		return nil, errors.New("remote client is nil")
	}
	if mapper == nil {
		return nil, errors.New("response mapper is nil")
	}
	return app.NewPhotoRepository(client, mapper, archive), nil
}

// NewSearchController creates the controller, which starts loading recent items at once.
func NewSearchController(repo domain.PhotoRepository, cfg *config.Config) (*app.SearchController, error) {
	if repo == nil {
		return nil, errors.New("photo repository is nil")
	}
	if cfg.PerPage < 1 || cfg.PerPage > 500 {
		return nil, fmt.Errorf("invalid per page: %d (must be 1-500)", cfg.PerPage)
	}
	return app.NewSearchController(repo, app.WithPerPage(cfg.PerPage)), nil
}

// NewStateBroadcaster forwards controller states to the event producer.
func NewStateBroadcaster(controller *app.SearchController, producer domain.EventProducer) (*app.StateBroadcaster, error) {
	if producer == nil {
		return nil, errors.New("event producer is nil")
	}
	return app.NewStateBroadcaster(controller, producer, 16), nil
}
