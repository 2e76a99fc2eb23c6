package server

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QueryParams is the body of POST /api/query.
type QueryParams struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"gte=0,lte=100"`
}

// TextDocumentParams is the JSON body of POST /api/document.
type TextDocumentParams struct {
	Source string `json:"source"`
	Text   string `json:"text" validate:"required"`
}

// validateStruct returns field -> failed tag, or nil when v is valid.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return out
}

// MatchResponse is one ranked chunk.
type MatchResponse struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// QueryResponse is the body returned by POST /api/query.
type QueryResponse struct {
	Results []MatchResponse `json:"results"`
}

// DocumentResponse describes the newly resident document.
type DocumentResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

// HealthResponse reports the session state.
type HealthResponse struct {
	State  string `json:"state"`
	Chunks int    `json:"chunks"`
}
