package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/metrics"
)

// DefaultPerPage is the page size requested for both search and recent items.
const DefaultPerPage = 100

type fetchKind int

const (
	fetchRefresh fetchKind = iota
	fetchMore
)

func (k fetchKind) String() string {
	if k == fetchRefresh {
		return "refresh"
	}
	return "load_more"
}

// fetchRequest captures everything a fetch needs at issue time.
type fetchRequest struct {
	kind  fetchKind
	epoch uint64
	ctx   context.Context
	text  string
	page  int
}

// SearchController drives incremental loading of photo pages and publishes a single
// ScreenState. Intents return immediately; fetches run on their own goroutines.
//
// Every Refresh starts a new session: the previous session's context is cancelled and
// any of its responses that still arrive are discarded.
type SearchController struct {
	repo    domain.PhotoRepository
	perPage int

	mu             sync.Mutex
	state          domain.ScreenState
	currentPage    int
	hasMore        bool
	isFetchingMore bool
	epoch          uint64
	sessionCtx     context.Context
	cancelSession  context.CancelFunc
	closed         bool

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup

	subs    map[int]chan domain.ScreenState
	nextSub int
}

// Option configures a SearchController.
type Option func(*SearchController)

// WithPerPage overrides DefaultPerPage.
func WithPerPage(n int) Option {
	return func(c *SearchController) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewSearchController creates a controller and immediately refreshes, which loads recent
// items since the query starts empty.
func NewSearchController(repo domain.PhotoRepository, opts ...Option) *SearchController {
	ctx, cancel := context.WithCancel(context.Background())
	c := &SearchController{
		repo:        repo,
		perPage:     DefaultPerPage,
		state:       domain.ScreenState{Items: []domain.Item{}},
		currentPage: 1,
		hasMore:     true,
		rootCtx:     ctx,
		rootCancel:  cancel,
		subs:        make(map[int]chan domain.ScreenState),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Refresh()
	return c
}

// State returns a copy of the current screen state.
func (c *SearchController) State() domain.ScreenState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe returns a channel receiving every published state in order. A subscriber that
// falls behind loses older snapshots, never the latest one. The returned func unsubscribes.
func (c *SearchController) Subscribe(buffer int) (<-chan domain.ScreenState, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.ScreenState, buffer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// SetQueryText trims and stores the query. It does not fetch.
func (c *SearchController) SetQueryText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	next := c.state
	next.QueryText = strings.TrimSpace(text)
	c.publishLocked(next)
}

// Refresh starts a new session and fetches its first page. It always runs, superseding
// whatever is in flight.
func (c *SearchController) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.epoch++
	if c.cancelSession != nil {
		c.cancelSession()
	}
	c.sessionCtx, c.cancelSession = context.WithCancel(c.rootCtx)

	c.currentPage = 1
	c.hasMore = true
	c.isFetchingMore = false

	next := c.state
	next.IsLoading = true
	next.Items = []domain.Item{}
	next.Error = nil
	c.publishLocked(next)

	req := c.requestLocked(fetchRefresh)
	c.mu.Unlock()

	slog.Debug("Refreshing photos", "query", req.text, "session", req.epoch)
	c.launch(req)
}

// LoadMore fetches the next page unless one is already being fetched or the session is
// exhausted. It does not look at IsLoading.
func (c *SearchController) LoadMore() {
	c.mu.Lock()
	if c.closed || c.isFetchingMore || !c.hasMore {
		c.mu.Unlock()
		return
	}

	c.isFetchingMore = true
	req := c.requestLocked(fetchMore)
	c.mu.Unlock()

	slog.Debug("Loading more photos", "query", req.text, "page", req.page, "session", req.epoch)
	c.launch(req)
}

// Wait blocks until every fetch issued so far has settled.
func (c *SearchController) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches, waits for them and closes all subscriptions.
// Intents are ignored afterwards.
func (c *SearchController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.rootCancel()
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// requestLocked snapshots the session for a fetch and registers it with wg.
func (c *SearchController) requestLocked(kind fetchKind) fetchRequest {
	c.wg.Add(1)
	return fetchRequest{
		kind:  kind,
		epoch: c.epoch,
		ctx:   c.sessionCtx,
		text:  c.state.QueryText,
		page:  c.currentPage,
	}
}

func (c *SearchController) launch(req fetchRequest) {
	go func() {
		defer c.wg.Done()
		metrics.FetchesInFlight.Inc()
		defer metrics.FetchesInFlight.Dec()

		var res domain.Result
		if req.text == "" {
			res = c.repo.RecentItems(req.ctx, c.perPage, req.page)
		} else {
			res = c.repo.SearchByText(req.ctx, req.text, c.perPage, req.page)
		}
		c.complete(req, res)
	}()
}

func (c *SearchController) complete(req fetchRequest, res domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if req.epoch != c.epoch {
		metrics.StaleResponsesDiscarded.Inc()
		slog.Debug("Discarding response from superseded session", "kind", req.kind, "session", req.epoch, "current", c.epoch)
		return
	}

	next := c.state
	if res.Ok() {
		merged, skipped := mergeItems(c.state.Items, res.Page.Items)
		metrics.ItemsMerged.Add(float64(len(merged) - len(c.state.Items)))
		if skipped > 0 {
			metrics.DuplicatesSkipped.Add(float64(skipped))
			slog.Debug("Skipped duplicate photos", "count", skipped, "page", res.Page.PageNumber)
		}
		next.Items = merged
		next.Error = nil

		if c.hasMore {
			c.hasMore = res.Page.PageNumber < res.Page.TotalPages
			c.currentPage++
		}
	} else {
		msg := errorMessage(res)
		next.Error = &msg
		slog.Warn("Photo fetch failed", "kind", req.kind, "query", req.text, "page", req.page, "error", msg)
	}

	if req.kind == fetchRefresh {
		next.IsLoading = false
	} else {
		c.isFetchingMore = false
	}
	c.publishLocked(next)
}

// publishLocked replaces the state and fans it out. Sends never block: a full subscriber
// channel has its oldest snapshot dropped.
func (c *SearchController) publishLocked(next domain.ScreenState) {
	c.state = next
	for _, ch := range c.subs {
		snap := next.Clone()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// mergeItems appends incoming onto existing, keeping the first occurrence of every id.
// existing is never modified.
func mergeItems(existing, incoming []domain.Item) ([]domain.Item, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]domain.Item, 0, len(existing)+len(incoming))
	for _, item := range existing {
		seen[item.ID] = struct{}{}
		merged = append(merged, item)
	}

	skipped := 0
	for _, item := range incoming {
		if _, dup := seen[item.ID]; dup {
			skipped++
			continue
		}
		seen[item.ID] = struct{}{}
		merged = append(merged, item)
	}
	return merged, skipped
}

func errorMessage(res domain.Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return domain.DefaultRemoteErrorMessage
}
