// ABOUTME: Multipart dataset upload: file plus session id, returning parsed phase metadata.
// ABOUTME: The backend parses the file and returns full rows and a preview sample.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// Upload sends the file at the given path to the backend and returns the
// dataset metadata for the new ingestion phase. The returned dataset id is
// the server-issued phase id.
func (c *Client) Upload(ctx context.Context, path string) (*workflow.Dataset, error) {
	const op = "upload"

	f, err := os.Open(path)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if err := mw.WriteField("session_id", c.sessionID); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	ctx, cancel := c.deadline(ctx)
	defer cancel()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/uploadfile/", &buf)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var ds workflow.Dataset
	if err := c.do(ctx, op, req, &ds); err != nil {
		return nil, err
	}
	if ds.Error != "" {
		return nil, &SemanticError{Op: op, Status: "error", Message: ds.Error}
	}
	if ds.ID == "" {
		return nil, &SemanticError{Op: op, Status: "error", Message: fmt.Sprintf("backend returned no id for %s", filepath.Base(path))}
	}
	return &ds, nil
}
