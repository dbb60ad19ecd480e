// Package pdftext извлекает текстовый слой из PDF-файлов курсов.
package pdftext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Result — извлечённый текст и количество страниц документа.
type Result struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// Extract читает PDF из r и возвращает его текстовый слой.
// Документы без текстового слоя возвращают пустую строку без ошибки.
func Extract(r io.ReaderAt, size int64) (*Result, error) {
	const op = "pdftext.Extract"

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		Text:  buf.String(),
		Pages: reader.NumPage(),
	}, nil
}
