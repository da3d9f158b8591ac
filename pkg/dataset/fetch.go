package dataset

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/httputil"
)

const fetchTimeout = 10 * time.Second

// formatsByMediaType maps response content types to dataset formats for
// URLs whose path carries no extension.
var formatsByMediaType = map[string]string{
	"application/json": "json",
	"text/csv":         "csv",
	"application/csv":  "csv",
	"application/toml": "toml",
	"text/toml":        "toml",
}

// IsRemote reports whether source is an HTTP or HTTPS URL rather than a
// local file path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ReadSource returns the raw dataset bytes and format for a source,
// which is either a local file path or an HTTP(S) URL. Remote fetches
// retry transient failures with backoff and honor ctx cancellation.
func ReadSource(ctx context.Context, source string) ([]byte, string, error) {
	if IsRemote(source) {
		return fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset file %s", source)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "read dataset file %s", source)
	}
	return data, filepath.Ext(source), nil
}

// LoadSource reads and validates a dataset from a path or URL.
func LoadSource(ctx context.Context, source string) (*Dataset, error) {
	data, format, err := ReadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// fetch downloads a dataset over HTTP. The format comes from the URL
// path extension, or from the Content-Type header when the path has
// none.
func fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "dataset URL %s", rawURL)
	}

	client := &http.Client{Timeout: fetchTimeout}

	var data []byte
	var contentType string
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "dataset URL %s", rawURL)
		}

		resp, err := client.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeFileNotFound, "dataset not found at %s", rawURL)
		case resp.StatusCode >= 500:
			return &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
		default:
			return errors.New(errors.ErrCodeUnavailable, "fetch %s: status %d", rawURL, resp.StatusCode)
		}

		contentType = resp.Header.Get("Content-Type")
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, "", err
		}
		return nil, "", errors.Wrap(errors.ErrCodeUnavailable, err, "fetch %s", rawURL)
	}

	format, err := remoteFormat(u, contentType)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// remoteFormat resolves the dataset format for a fetched URL.
func remoteFormat(u *url.URL, contentType string) (string, error) {
	if ext := path.Ext(u.Path); ext != "" {
		return ext, nil
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if format, ok := formatsByMediaType[mediaType]; ok {
			return format, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"cannot determine dataset format for %s (no path extension, content type %q)", u, contentType)
}
