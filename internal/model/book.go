package model

import "fmt"

// Placeholders substituted for fields the agent left out
const (
	DefaultTitle       = "Unknown Title"
	DefaultAuthor      = "Unknown Author"
	DefaultGenre       = "Unknown Genre"
	DefaultDescription = "No description available"
	DefaultRating      = "N/A"
)

type RecommendationRequest struct {
	Prompt string `json:"prompt"`
}

type BookRecommendation struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Rating      string `json:"rating"`
}

type RecommendationResponse struct {
	Books   []BookRecommendation `json:"books"`
	Message string               `json:"message"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// NewRecommendationResponse wraps books with the derived count message
func NewRecommendationResponse(books []BookRecommendation) RecommendationResponse {
	if books == nil {
		books = []BookRecommendation{}
	}
	return RecommendationResponse{
		Books:   books,
		Message: fmt.Sprintf("Found %d book recommendations for you!", len(books)),
	}
}
