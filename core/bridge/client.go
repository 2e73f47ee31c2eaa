// Package bridge implements a typed HTTP client to the external
// WhatsApp Bridge (a Baileys-style Node process). Grounded directly on
// original_source/fillow/services.py's NodeBridge class.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout   = 30 * time.Second
	multipartTimeout = 120 * time.Second

	// deniedMarker is the literal Bridge marker identifying an
	// invalid-token error.
	deniedMarker = "ACESSO NEGADO"
)

// Client wraps *http.Client with two auth modes against one Bridge:
// admin mode (x-api-key) and user mode (Authorization: Bearer <token>).
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

func New(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		adminKey: adminKey,
		httpClient: &http.Client{
			Transport: newRetryingTransport(http.DefaultTransport),
		},
	}
}

// Error carries the Bridge's raw error body and flags the literal
// "ACESSO NEGADO" marker that authorizes a Token Self-Heal retry.
type Error struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge: status %d: %s", e.StatusCode, string(e.Body))
}

// IsAccessDenied reports whether the Bridge's response body contains
// the literal self-heal marker.
func (e *Error) IsAccessDenied() bool {
	return strings.Contains(string(e.Body), deniedMarker)
}

type requestOpts struct {
	method   string
	path     string
	body     any
	token    string // non-empty => user mode
	timeout  time.Duration
	multipart *multipartBody
}

type multipartBody struct {
	fields map[string]string
	files  map[string][]byte // field name -> raw content
	names  map[string]string // field name -> filename
}

func (c *Client) do(ctx context.Context, opts requestOpts) (json.RawMessage, error) {
	if opts.timeout == 0 {
		opts.timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	url := c.baseURL + opts.path
	var bodyReader io.Reader
	contentType := "application/json"

	if opts.multipart != nil {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range opts.multipart.fields {
			_ = w.WriteField(k, v)
		}
		for field, content := range opts.multipart.files {
			fw, err := w.CreateFormFile(field, opts.multipart.names[field])
			if err != nil {
				return nil, err
			}
			if _, err := fw.Write(content); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		bodyReader = buf
		contentType = w.FormDataContentType()
	} else if opts.body != nil {
		raw, err := json.Marshal(opts.body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, opts.method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if opts.multipart == nil {
		req.Header.Set("Content-Type", contentType)
	} else {
		req.Header.Set("Content-Type", contentType)
	}

	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	} else {
		req.Header.Set("x-api-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithField("component", "BRIDGE").WithError(err).Error("node server unreachable")
		return nil, fmt.Errorf("bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	if resp.StatusCode >= 400 {
		logrus.WithField("component", "BRIDGE").
			WithField("status", resp.StatusCode).
			WithField("url", url).
			Error("bridge returned error")
		return nil, &Error{StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}

// adminRequest issues a request using the shared x-api-key header:
// session lifecycle and session listing.
func (c *Client) adminRequest(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, requestOpts{method: method, path: path, body: body})
}

// userRequest issues a request using Authorization: Bearer <token>:
// every per-instance operation.
func (c *Client) userRequest(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	return c.do(ctx, requestOpts{method: method, path: path, body: body, token: token})
}

func (c *Client) userMultipart(ctx context.Context, path, token string, fields map[string]string, files map[string][]byte, names map[string]string) (json.RawMessage, error) {
	return c.do(ctx, requestOpts{
		method:  http.MethodPost,
		path:    path,
		token:   token,
		timeout: multipartTimeout,
		multipart: &multipartBody{fields: fields, files: files, names: names},
	})
}
