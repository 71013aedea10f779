package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/metrics"
	"github.com/PhotoSearch/internal/infra/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PhotoRepository fetches pages through a RemoteClient and normalizes them with a
// ResponseMapper. Every outcome, including panics below it, comes back as a Result.
type PhotoRepository struct {
	client  domain.RemoteClient
	mapper  domain.ResponseMapper
	archive domain.PageArchive
}

// Ensure PhotoRepository implements domain.PhotoRepository
var _ domain.PhotoRepository = (*PhotoRepository)(nil)

// NewPhotoRepository wires the collaborators. archive may be nil.
func NewPhotoRepository(client domain.RemoteClient, mapper domain.ResponseMapper, archive domain.PageArchive) *PhotoRepository {
	return &PhotoRepository{
		client:  client,
		mapper:  mapper,
		archive: archive,
	}
}

func (r *PhotoRepository) SearchByText(ctx context.Context, text string, perPage, page int) domain.Result {
	return r.fetch(ctx, metrics.OpSearch, text, page, func(ctx context.Context) (*domain.RawResponse, error) {
		return r.client.Search(ctx, text, perPage, page)
	})
}

func (r *PhotoRepository) RecentItems(ctx context.Context, perPage, page int) domain.Result {
	return r.fetch(ctx, metrics.OpRecent, "", page, func(ctx context.Context) (*domain.RawResponse, error) {
		return r.client.Recent(ctx, perPage, page)
	})
}

func (r *PhotoRepository) fetch(
	ctx context.Context,
	op, query string,
	pageNumber int,
	call func(context.Context) (*domain.RawResponse, error),
) (res domain.Result) {
	tr := otel.Tracer(tracing.TracerName)
	ctx, span := tr.Start(ctx, "PhotoRepository."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("operation", op),
		attribute.String("query", query),
		attribute.Int("page", pageNumber),
	)

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Recovered panic in photo fetch", "operation", op, "panic", rec)
			res = domain.Failure(domain.NewTransportError(fmt.Errorf("panic: %v", rec)))
		}

		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		metrics.RemoteRequests.WithLabelValues(op, status(res)).Inc()
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
	}()

	raw, err := call(ctx)
	if err != nil {
		return domain.Failure(domain.NewTransportError(err))
	}
	if raw == nil {
		return domain.Failure(domain.NewTransportError(domain.ErrNilResponse))
	}

	page, err := r.mapper.Normalize(raw)
	if err != nil {
		var remoteErr *domain.RemoteError
		if errors.As(err, &remoteErr) {
			slog.Warn("Photo service returned an error", "operation", op, "query", query, "page", pageNumber, "error", remoteErr.Describe())
			return domain.Failure(remoteErr)
		}
		return domain.Failure(domain.NewTransportError(err))
	}

	span.SetAttributes(attribute.Int("items", len(page.Items)), attribute.Int("total_pages", page.TotalPages))
	r.archivePage(ctx, query, page)
	return domain.Success(page)
}

func (r *PhotoRepository) archivePage(ctx context.Context, query string, page *domain.Page) {
	if r.archive == nil {
		return
	}
	if err := r.archive.Save(ctx, query, page); err != nil {
		metrics.ArchiveErrors.Inc()
		slog.Warn("Failed to archive page", "query", query, "page", page.PageNumber, "error", err)
	}
}

func status(res domain.Result) string {
	if res.Err == nil {
		return "success"
	}
	var remoteErr *domain.RemoteError
	if errors.As(res.Err, &remoteErr) && !remoteErr.IsTransport() {
		return "remote_error"
	}
	return "transport_error"
}
