package bridge

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

const maxTransportAttempts = 3

// retryingTransport retries transport-level failures (not HTTP error
// statuses, which the Bridge still answers with a body) up to 3
// attempts with linear backoff 0.6*attempt seconds.
// Multipart uploads are excluded since their request body cannot be
// safely replayed without buffering the whole payload twice.
type retryingTransport struct {
	next http.RoundTripper
}

func newRetryingTransport(next http.RoundTripper) http.RoundTripper {
	return &retryingTransport{next: next}
}

func (t *retryingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isMultipart(req) {
		return t.next.RoundTrip(req)
	}

	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxTransportAttempts; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
		resp, err := t.next.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < maxTransportAttempts {
			time.Sleep(time.Duration(float64(attempt)*0.6*1000) * time.Millisecond)
		}
	}
	return nil, lastErr
}

func isMultipart(req *http.Request) bool {
	ct := req.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}
