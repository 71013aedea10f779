package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/PhotoSearch/internal/app"
	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/provider"
	"github.com/PhotoSearch/internal/infra/transformer"
	"github.com/PhotoSearch/pkg/config"
	"github.com/spf13/cobra"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		pages   int
		perPage int
		apiKey  string
		baseURL string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:     "photosearch [text]",
		Short:   "Search Flickr photos, or list recent ones when no text is given",
		Args:    cobra.ArbitraryArgs,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			cfg := config.Load()
			if apiKey != "" {
				cfg.FlickrAPIKey = apiKey
			}
			if baseURL != "" {
				cfg.FlickrBaseURL = baseURL
			}
			if perPage > 0 {
				cfg.PerPage = perPage
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client := provider.NewFlickrClient(cfg.FlickrBaseURL, cfg.FlickrAPIKey, cfg.FlickrTimeout)
			repo := app.NewPhotoRepository(client, transformer.NewFlickrTransformer(), nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			state, err := run(ctx, repo, strings.Join(args, " "), pages, cfg.PerPage)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), state)
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "Number of pages to load")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Items per page (overrides PER_PAGE)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Flickr API key (overrides FLICKR_API_KEY)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Flickr REST endpoint (overrides FLICKR_BASE_URL)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	return cmd
}

// run drives a controller through a refresh and pages-1 load-more calls. It stops early
// on the first error or when the results are exhausted.
func run(ctx context.Context, repo domain.PhotoRepository, text string, pages, perPage int) (domain.ScreenState, error) {
	if pages < 1 {
		return domain.ScreenState{}, fmt.Errorf("--pages must be at least 1, got %d", pages)
	}

	controller := app.NewSearchController(repo, app.WithPerPage(perPage))
	defer controller.Close()
	if text != "" {
		// Supersedes the recent-items load the controller starts with.
		controller.SetQueryText(text)
		controller.Refresh()
	}
	controller.Wait()
	if state := controller.State(); state.Error != nil {
		return state, fmt.Errorf("search failed: %s", *state.Error)
	}

	for i := 1; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return controller.State(), err
		}
		before := len(controller.State().Items)
		controller.LoadMore()
		controller.Wait()

		state := controller.State()
		if state.Error != nil || len(state.Items) == before {
			break
		}
	}

	state := controller.State()
	if state.Error != nil && len(state.Items) == 0 {
		return state, fmt.Errorf("search failed: %s", *state.Error)
	}
	return state, nil
}

func printState(w io.Writer, state domain.ScreenState) {
	for _, item := range state.Items {
		url := ""
		if item.MediumURL != nil {
			url = *item.MediumURL
		} else if item.ThumbnailURL != nil {
			url = *item.ThumbnailURL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Title, url)
	}
	if state.Error != nil {
		fmt.Fprintf(w, "error: %s\n", *state.Error)
	}
	fmt.Fprintf(w, "%d items\n", len(state.Items))
}
