package openrag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const (
	documentsPath = "/api/v1/documents"
	ingestPath    = documentsPath + "/ingest"
)

// DocumentsService provides knowledge base document operations.
type DocumentsService struct {
	client *Client
}

// Ingest uploads a document into the knowledge base as multipart form data.
// The filename determines how the document is identified and later deleted.
func (s *DocumentsService) Ingest(ctx context.Context, filename string, file io.Reader) (*IngestResponse, error) {
	if filename == "" {
		return nil, errors.New("openrag: filename is required")
	}
	if file == nil {
		return nil, errors.New("openrag: file is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("openrag: building multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("openrag: reading file: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("openrag: finalizing multipart form: %w", err)
	}

	resp, err := s.client.doRequest(ctx, http.MethodPost, ingestPath, &buf, form.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out IngestResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// IngestFile uploads a document from the local filesystem, using the file's
// base name as the document filename.
func (s *DocumentsService) IngestFile(ctx context.Context, path string) (*IngestResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("openrag: opening %s: %w", path, err)
	}
	defer f.Close()

	return s.Ingest(ctx, filepath.Base(path), f)
}

// Delete removes a document and all its chunks from the knowledge base.
func (s *DocumentsService) Delete(ctx context.Context, filename string) (*DeleteDocumentResponse, error) {
	if filename == "" {
		return nil, errors.New("openrag: filename is required")
	}

	body := struct {
		Filename string `json:"filename"`
	}{Filename: filename}

	var out DeleteDocumentResponse
	if err := s.client.doJSON(ctx, http.MethodDelete, documentsPath, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
