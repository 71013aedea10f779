package factory

import (
	"errors"
	"log/slog"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/provider"
	"github.com/PhotoSearch/internal/infra/transformer"
	"github.com/PhotoSearch/pkg/config"
)

// NewRemoteClient creates the Flickr REST client.
func NewRemoteClient(cfg *config.Config) (domain.RemoteClient, error) {
	if cfg.FlickrAPIKey == "" {
		return nil, errors.New("flickr api key not configured")
	}
	slog.Info("Registered photo service", "base_url", cfg.FlickrBaseURL, "timeout", cfg.FlickrTimeout)
	return provider.NewFlickrClient(cfg.FlickrBaseURL, cfg.FlickrAPIKey, cfg.FlickrTimeout), nil
}

// NewResponseMapper creates the mapper for Flickr responses.
func NewResponseMapper() domain.ResponseMapper {
	return transformer.NewFlickrTransformer()
}
