package infrastructure

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"resume-coach/domain"
)

// ExtractResumeText turns an uploaded resume document into plain text.
// Only .pdf, .doc and .docx are accepted; the extension gate runs before any
// parsing, so an unsupported upload never touches a parser or the network.
// Empty or unreadable content fails with ErrExtractionFailed.
func ExtractResumeText(data []byte, filename string) (string, error) {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i+1:])
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractTextFromPDF(data)
	case "docx":
		text, err = extractTextFromDocx(data)
	case "doc":
		text, err = extractTextFromDoc(data)
	default:
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: document contains no readable text", domain.ErrExtractionFailed)
	}
	return text, nil
}

// extractTextFromPDF extracts text from PDF files using unipdf
func extractTextFromPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder
	extractedAnyText := false

	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue // skip pages with errors
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}

		if pageText != "" {
			extractedAnyText = true
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n\n")
		}
	}

	if !extractedAnyText {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}
	return strings.TrimSpace(textBuilder.String()), nil
}

var docxTags = regexp.MustCompile(`<[^>]+>`)

// extractTextFromDocx unpacks the document body and strips the WordprocessingML
// markup, keeping paragraph breaks.
func extractTextFromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTags.ReplaceAllString(content, "")
	return content, nil
}

// extractTextFromDoc scrapes printable runs out of a legacy Word binary.
// Best effort only; anything that yields no text fails upstream.
func extractTextFromDoc(data []byte) (string, error) {
	var parts []string
	var run []byte
	flush := func() {
		// Runs shorter than 4 bytes are structure noise, not prose.
		if len(run) >= 4 {
			parts = append(parts, string(run))
		}
		run = run[:0]
	}
	for _, c := range data {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c < 0x7f) {
			run = append(run, c)
		} else {
			flush()
		}
	}
	flush()
	return strings.Join(parts, " "), nil
}
