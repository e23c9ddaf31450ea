package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
)

// Document formats accepted for text extraction.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedFormat means the upload is neither a PDF nor a DOCX file,
	// or its bytes do not match the declared type.
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf and docx are allowed")
	// ErrUnreadable means the file has the right type but no text could be extracted.
	ErrUnreadable = errors.New("could not extract text from document")
)

// DetectFormat resolves the document format from the declared content type,
// falling back to the file extension.
func DetectFormat(filename, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case mimePDF:
		return FormatPDF, nil
	case mimeDOCX:
		return FormatDOCX, nil
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}
	return "", ErrUnsupportedFormat
}

// ParseResumeText extracts plain text from a PDF or DOCX upload.
func ParseResumeText(filename, contentType string, data []byte) (string, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return "", err
	}
	var text string
	switch format {
	case FormatPDF:
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			return "", ErrUnsupportedFormat
		}
		text, err = extractTextFromPDF(data)
	case FormatDOCX:
		if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
			return "", ErrUnsupportedFormat
		}
		text, err = extractTextFromDocx(data)
	}
	if err != nil {
		return "", err
	}
	text = nlp.NormalizeWhitespace(text)
	if text == "" {
		return "", ErrUnreadable
	}
	return text, nil
}

func extractTextFromPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
	}
	return buf.String(), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrUnreadable, err)
	}
	defer r.Close()
	return nlp.StripXML(r.Editable().GetContent()), nil
}
