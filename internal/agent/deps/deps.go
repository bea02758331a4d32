package deps

import (
	"context"

	"shelfie/backend/internal/search"
)

// Searcher abstracts the web search backend behind the web_search tool
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Result, error)
}
