package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/PhotoSearch/internal/domain"
)

const totalPages = 5

func main() {
	http.HandleFunc("/services/rest/", handleRest)

	slog.Info("Mock Flickr server running on :8081")
	if err := http.ListenAndServe(":8081", nil); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// handleRest answers search and getRecent calls with deterministic pages. The first item of
// every page after the first repeats the last item of the previous page. Searching for
// "fail" returns an error payload.
func handleRest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	var response domain.RawResponse
	switch method := q.Get("method"); {
	case method == "flickr.photos.search" && q.Get("text") == "fail":
		code := 100
		response = domain.RawResponse{Stat: "fail", Code: &code, Message: "Invalid API Key (Key has invalid format)"}
	case method == "flickr.photos.search", method == "flickr.photos.getRecent":
		prefix := q.Get("text")
		if prefix == "" {
			prefix = "recent"
		}
		response = domain.RawResponse{Stat: "ok", Photos: buildPage(prefix, atoi(q.Get("page"), 1), atoi(q.Get("per_page"), 100))}
	default:
		code := 112
		response = domain.RawResponse{Stat: "fail", Code: &code, Message: fmt.Sprintf("Method %q not found", method)}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func buildPage(prefix string, page, perPage int) *domain.RawPage {
	if perPage > 20 {
		perPage = 20
	}

	out := &domain.RawPage{
		Page:    page,
		Pages:   totalPages,
		PerPage: perPage,
		Total:   domain.FlexString(strconv.Itoa(totalPages * perPage)),
		Photo:   []domain.RawItem{},
	}
	if page > totalPages {
		return out
	}

	start := (page - 1) * perPage
	if page > 1 {
		start--
	}
	for i := start; i < page*perPage; i++ {
		id := fmt.Sprintf("%s-%d", prefix, i)
		thumb := fmt.Sprintf("https://live.staticflickr.com/mock/%s_q.jpg", id)
		medium := fmt.Sprintf("https://live.staticflickr.com/mock/%s_m.jpg", id)
		out.Photo = append(out.Photo, domain.RawItem{
			ID:        id,
			Title:     fmt.Sprintf("%s photo %d", prefix, i),
			IsPublic:  1,
			URLThumb:  &thumb,
			URLMedium: &medium,
		})
	}
	return out
}

func atoi(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}
