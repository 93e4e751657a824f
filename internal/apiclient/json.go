package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// FilePart is a file attached to a multipart form.
type FilePart struct {
	Field string
	Path  string
}

// GetJSON issues GET <path>?<query> and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// PostJSON posts in as JSON and decodes the response into out (may be nil).
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

// PutJSON replaces a resource.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

// PatchJSON partially updates a resource.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
	return err
}

// PostForm posts a multipart form with optional file parts.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, files []FilePart, out any) error {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s %s", method, path)
		}
		payload = b
	}
	return c.doJSON(ctx, Request{
		Method:      method,
		Path:        path,
		Body:        bytesBody(payload),
		ContentType: "application/json",
	}, out)
}

func (c *Client) doJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeServiceUnavailable, "decode %s %s", req.Method, req.Path)
	}
	return nil
}

func buildMultipart(fields map[string]string, files []FilePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := writeMultipart(mw, fields, files); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "build form")
	}
	if err := mw.Close(); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "close form")
	}
	return &buf, mw.FormDataContentType(), nil
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, files []FilePart) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		if err := writeFilePart(mw, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFilePart(mw *multipart.Writer, f FilePart) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer src.Close()
	part, err := mw.CreateFormFile(f.Field, filepath.Base(f.Path))
	if err != nil {
		return fmt.Errorf("create part %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.Path, err)
	}
	return nil
}
