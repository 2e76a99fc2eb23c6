// Package document turns uploaded files into ordered page texts.
// PDFs are validated with pdfcpu and their text is extracted page by page
// with GoPDF2; plain-text files become a single page.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	gopdf "github.com/VantageDataChat/GoPDF2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"askpdf/internal/logger"
)

// ErrUnsupportedFormat reports a file type that cannot be turned into text.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Load reads path and returns its page texts.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes dispatches on the file name's extension.
func FromBytes(name string, data []byte) ([]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return ExtractPDF(data)
	case ".txt", ".md", ".text":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s: %w: not valid UTF-8 text", name, ErrUnsupportedFormat)
		}
		return []string{string(data)}, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// ExtractPDF returns the text of every page in order. A page whose text
// cannot be extracted contributes an empty string.
func ExtractPDF(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parse error: %v", r)
		}
	}()

	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return nil, errors.New("pdf parse error: not a PDF file")
	}
	if err := validate(data); err != nil {
		return nil, fmt.Errorf("pdf parse error: %w", err)
	}

	pageCount, err := gopdf.GetSourcePDFPageCountFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("pdf parse error: %w", err)
	}
	pages = make([]string, pageCount)
	for i := 0; i < pageCount; i++ {
		text, err := gopdf.ExtractPageText(data, i)
		if err != nil {
			logger.Warn("pdf page %d: %v", i+1, err)
			continue
		}
		pages[i] = text
	}
	logger.Debug("pdf: %d pages extracted", pageCount)
	return pages, nil
}

func validate(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(data), conf)
}
