package transformer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PhotoSearch/internal/domain"
)

type FlickrTransformer struct{}

func NewFlickrTransformer() *FlickrTransformer {
	return &FlickrTransformer{}
}

// Transform decodes a JSON body and normalizes it.
func (t *FlickrTransformer) Transform(reader io.Reader) (*domain.Page, error) {
	raw, err := Decode(reader)
	if err != nil {
		return nil, err
	}
	return t.Normalize(raw)
}

// Decode parses a JSON body into the wire envelope without validating it.
func Decode(reader io.Reader) (*domain.RawResponse, error) {
	var raw domain.RawResponse
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode flickr response: %w", err)
	}
	return &raw, nil
}

// Normalize converts a raw response into a Page. A missing photos payload is the only
// failure signal; stat is never consulted.
func (t *FlickrTransformer) Normalize(raw *domain.RawResponse) (*domain.Page, error) {
	if raw == nil {
		return nil, domain.NewRemoteError(nil, "")
	}
	if raw.Photos == nil {
		return nil, domain.NewRemoteError(raw.Code, raw.Message)
	}

	photos := raw.Photos
	items := make([]domain.Item, 0, len(photos.Photo))
	for _, p := range photos.Photo {
		items = append(items, t.normalize(p))
	}

	return &domain.Page{
		PageNumber: photos.Page,
		TotalPages: photos.Pages,
		PerPage:    photos.PerPage,
		TotalCount: string(photos.Total),
		Items:      items,
	}, nil
}

func (t *FlickrTransformer) normalize(p domain.RawItem) domain.Item {
	return domain.Item{
		ID:           p.ID,
		Title:        p.Title,
		ThumbnailURL: nonEmpty(p.URLThumb),
		MediumURL:    nonEmpty(p.URLMedium),
	}
}

// nonEmpty copies a URL pointer; an empty string maps to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
