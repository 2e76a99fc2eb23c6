package server

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"askpdf/internal/document"
	"askpdf/internal/domain"
	"askpdf/internal/service"
)

// Session is the subset of the retrieval session the handlers need.
type Session interface {
	LoadDocument(source string, pages []string) (service.Loaded, error)
	Query(text string, k int) ([]domain.Match, error)
	State() service.State
	ChunkCount() int
}

type Handler struct {
	session Session
}

func NewHandler(s Session) *Handler {
	return &Handler{session: s}
}

// HandleDocument replaces the resident document with an uploaded file or
// a JSON text body.
func (h *Handler) HandleDocument(c *fiber.Ctx) error {
	var (
		source string
		pages  []string
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return errMissingFile()
		}
		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return err
		}
		source = fileHeader.Filename
		pages, err = document.FromBytes(source, data)
		if err != nil {
			return err
		}
	} else {
		var params TextDocumentParams
		if c.BodyParser(&params) != nil {
			return errMissingFile()
		}
		if errs := validateStruct(&params); len(errs) > 0 {
			return NewValidationError(errs)
		}
		source = params.Source
		if source == "" {
			source = "text"
		}
		pages = []string{params.Text}
	}

	doc, err := h.session.LoadDocument(source, pages)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(DocumentResponse{
		ID:     doc.ID,
		Source: doc.Source,
		Pages:  len(doc.Pages),
		Chunks: doc.Chunks,
	})
}

// HandleQuery ranks the resident chunks against the query.
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	var params QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := validateStruct(&params); len(errs) > 0 {
		return NewValidationError(errs)
	}
	matches, err := h.session.Query(params.Query, params.K)
	if err != nil {
		return err
	}
	resp := QueryResponse{Results: make([]MatchResponse, len(matches))}
	for i, m := range matches {
		resp.Results[i] = MatchResponse{Index: m.Chunk.Index, Text: m.Chunk.Text, Score: m.Score}
	}
	return c.JSON(resp)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{State: h.session.State().String(), Chunks: h.session.ChunkCount()})
}
