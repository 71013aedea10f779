package domain

import (
	"context"
)

// Item is a single photo as shown to the user. Identity is ID.
type Item struct {
	ID           string  `json:"id" bson:"id"`
	Title        string  `json:"title" bson:"title"`
	ThumbnailURL *string `json:"thumbnail_url" bson:"thumbnail_url"` // nil when the service sent no url_q
	MediumURL    *string `json:"medium_url" bson:"medium_url"`       // nil when the service sent no url_m
}

// Page is one batch of items plus the pagination metadata of the call that produced it.
type Page struct {
	PageNumber int    `json:"page" bson:"page"`
	TotalPages int    `json:"pages" bson:"pages"`
	PerPage    int    `json:"per_page" bson:"per_page"`
	TotalCount string `json:"total" bson:"total"` // Opaque, the service is not consistent about its type
	Items      []Item `json:"items" bson:"items"`
}

// ScreenState is the only externally observable state of a SearchController.
// Snapshots are replaced on every transition and never mutated afterwards.
type ScreenState struct {
	QueryText string  `json:"query_text"`
	IsLoading bool    `json:"is_loading"`
	Items     []Item  `json:"items"`
	Error     *string `json:"error"`
}

// Clone returns a copy that shares no slice memory with s.
func (s ScreenState) Clone() ScreenState {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}

// Result is the outcome of a repository call: either a Page or the error that prevented it.
type Result struct {
	Page *Page
	Err  error
}

// Success wraps an accepted page.
func Success(p *Page) Result {
	return Result{Page: p}
}

// Failure wraps the error of a failed call.
func Failure(err error) Result {
	return Result{Err: err}
}

// Ok reports whether the result carries a page.
func (r Result) Ok() bool {
	return r.Err == nil && r.Page != nil
}

// RemoteClient performs the raw calls against the photo service.
type RemoteClient interface {
	Search(ctx context.Context, text string, perPage, page int) (*RawResponse, error)
	Recent(ctx context.Context, perPage, page int) (*RawResponse, error)
}

// ResponseMapper turns a raw response into a validated Page or a *RemoteError.
type ResponseMapper interface {
	Normalize(raw *RawResponse) (*Page, error)
}

// PhotoRepository fetches pages and never returns a failure other than through Result.
type PhotoRepository interface {
	SearchByText(ctx context.Context, text string, perPage, page int) Result
	RecentItems(ctx context.Context, perPage, page int) Result
}

// PageArchive stores accepted pages.
type PageArchive interface {
	Save(ctx context.Context, query string, page *Page) error
}

// EventProducer publishes screen state events to a queue.
type EventProducer interface {
	Publish(ctx context.Context, event *StateEvent) error
	Close() error
}
