// internal/storage/image_source.go
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	commonhttp "docgen-engine/internal/common/http"
)

// HTTPImageSource implements ImageSource over a timeout-bound HTTP client.
type HTTPImageSource struct {
	client *commonhttp.Client
}

func NewHTTPImageSource(client *commonhttp.Client) *HTTPImageSource {
	return &HTTPImageSource{client: client}
}

func (s *HTTPImageSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := s.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unexpected content type %q", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return data, nil
}
