package response

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"shelfie/backend/internal/model"
)

// Normalize maps decoded items onto BookRecommendation, filling placeholders
// for missing fields. Items that are not JSON objects are skipped.
func Normalize(items []any) []model.BookRecommendation {
	books := make([]model.BookRecommendation, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			log.Printf("[PARSE] Skipping item %d: expected an object, got %s", i, describe(item))
			continue
		}
		books = append(books, model.BookRecommendation{
			Title:       field(obj, "title", model.DefaultTitle),
			Author:      field(obj, "author", model.DefaultAuthor),
			Genre:       field(obj, "genre", model.DefaultGenre),
			Description: field(obj, "description", model.DefaultDescription),
			Rating:      field(obj, "rating", model.DefaultRating),
		})
	}
	return books
}

// field reads key as text. Absent, null and non-scalar values yield def.
func field(obj map[string]any, key, def string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

// SummaryForLog renders "N [title, ...]" for log lines
func SummaryForLog(books []model.BookRecommendation) string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	return strconv.Itoa(len(books)) + " [" + strings.Join(titles, ", ") + "]"
}
