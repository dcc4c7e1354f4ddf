package database

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// StorageClient uploads files to Supabase object storage.
type StorageClient struct {
	url        string
	serviceKey string
	httpClient *http.Client
}

// NewStorageClient creates an object-storage client.
func NewStorageClient(cfg Config) (*StorageClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase service key is required")
	}
	return &StorageClient{
		url:        strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ObjectPath builds the storage path for an uploaded document, namespaced
// by user, role and timestamp so concurrent uploads never collide.
func ObjectPath(userID, role, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", userID, role, now.UnixNano(), filename)
}

// Upload stores data under bucket/path and returns the object URL.
func (c *StorageClient) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if bucket == "" || path == "" {
		return "", fmt.Errorf("bucket and path are required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	escaped := escapePath(path)
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.url, neturl.PathEscape(bucket), escaped)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("storage API error %d", resp.StatusCode)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.url, neturl.PathEscape(bucket), escaped), nil
}

// escapePath escapes each path segment while keeping separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = neturl.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
