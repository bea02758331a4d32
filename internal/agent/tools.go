package agent

import (
	"context"
	"fmt"
	"log"

	"shelfie/backend/internal/agent/deps"
	"shelfie/backend/internal/agent/prompt"
	"shelfie/backend/internal/agent/sanitize"
	"shelfie/backend/internal/config"
	"shelfie/backend/internal/search"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/adk/tool/geminitool"
)

// ============================================
// Tool Input/Output Types
// ============================================

// web_search tool
type webSearchInput struct {
	Query      string `json:"query" jsonschema:"Search keywords, e.g. a title, author, genre or theme"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 8, max 20)"`
}

type webSearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type webSearchOutput struct {
	Results []webSearchHit `json:"results"`
	Count   int            `json:"count"`
	Error   string         `json:"error,omitempty"`
}

// ============================================
// SearchTools - binds a search capability to the agent
// ============================================

type SearchTools struct {
	searcher deps.Searcher
}

func NewSearchTools(s deps.Searcher) *SearchTools {
	return &SearchTools{searcher: s}
}

func (t *SearchTools) webSearch(ctx tool.Context, input webSearchInput) (webSearchOutput, error) {
	log.Printf("[TOOL] web_search called with query: %s", input.Query)
	return t.search(ctx, input), nil
}

// search reports backend failures in the output so the model can carry on without results
func (t *SearchTools) search(ctx context.Context, input webSearchInput) webSearchOutput {
	results, err := t.searcher.Search(ctx, input.Query, input.MaxResults)
	if err != nil {
		log.Printf("[TOOL] web_search failed: %v", err)
		return webSearchOutput{Results: []webSearchHit{}, Error: "search unavailable: " + err.Error()}
	}

	hits := make([]webSearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, webSearchHit{
			Title:   sanitize.Snippet(r.Title),
			URL:     r.URL, // URLs are not sanitized
			Snippet: "<search_snippet>" + sanitize.Snippet(r.Snippet) + "</search_snippet>",
		})
	}

	log.Printf("[TOOL] web_search found %d results", len(hits))
	return webSearchOutput{Results: hits, Count: len(hits)}
}

// BuildTools creates the ADK tools for this toolset
func (t *SearchTools) BuildTools() ([]tool.Tool, error) {
	searchTool, err := functiontool.New(functiontool.Config{
		Name:        "web_search",
		Description: prompt.ToolDescription,
	}, t.webSearch)
	if err != nil {
		return nil, err
	}
	return []tool.Tool{searchTool}, nil
}

// BuildSearchTools returns the search capability selected by cfg.SearchProvider.
// Gemini's built-in Google Search cannot be combined with function tools, so
// exactly one of the two is bound.
func BuildSearchTools(cfg *config.Config) ([]tool.Tool, error) {
	switch cfg.SearchProvider {
	case config.SearchProviderGoogle:
		return []tool.Tool{geminitool.GoogleSearch{}}, nil
	case config.SearchProviderDuckDuckGo:
		return NewSearchTools(search.NewDuckDuckGoClient(cfg.SearchMinInterval)).BuildTools()
	default:
		return nil, fmt.Errorf("%w: unknown search provider %q", config.ErrConfiguration, cfg.SearchProvider)
	}
}
