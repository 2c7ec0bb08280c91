package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"PulseWatch/internal/domain/models"
	"PulseWatch/internal/domain/repository"
	xhttp "PulseWatch/pkg/http"
)

// FeedAPI fetches cursor-paginated feed pages from the news/event endpoint.
// A transient failure is retried once before it is reported to the caller.
type FeedAPI struct {
	baseURL string
	client  *xhttp.Client
}

// NewFeedAPI creates a feed page fetcher.
func NewFeedAPI(baseURL string, timeout time.Duration) repository.PageFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FeedAPI{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (f *FeedAPI) FetchPage(ctx context.Context, filters models.FeedFilters, cursor *string, size int) (*models.FeedPage, error) {
	params := map[string][]string{
		"size": {strconv.Itoa(size)},
	}
	if filters.Sentiment != "" {
		params["sentiment"] = []string{filters.Sentiment}
	}
	if filters.Category != "" {
		params["category"] = []string{filters.Category}
	}
	if !filters.From.IsZero() {
		params["from"] = []string{filters.From.UTC().Format(time.RFC3339)}
	}
	if !filters.To.IsZero() {
		params["to"] = []string{filters.To.UTC().Format(time.RFC3339)}
	}
	if cursor != nil {
		params["cursor"] = []string{*cursor}
	}

	var page models.FeedPage
	err := f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         f.baseURL + "/feed",
		QueryParams: params,
	}, &page)
	if err != nil {
		// retry once, then report
		if ctx.Err() != nil {
			return nil, err
		}
		if err = f.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         f.baseURL + "/feed",
			QueryParams: params,
		}, &page); err != nil {
			return nil, fmt.Errorf("fetch feed page: %w", err)
		}
	}
	return &page, nil
}
