// Package storage is a thin client for a Supabase-compatible object
// storage API. Objects live in flat buckets and resolve to public
// URLs of the form {base}/storage/v1/object/public/{bucket}/{path}.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const publicPrefix = "/storage/v1/object/public/"

type Client struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewClient(baseURL, serviceKey string, client *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
	}
}

// Upload stores an object under bucket/path. Paths are expected to be
// collision-safe already (see utils.RandomObjectName).
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage upload failed: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// PublicURL returns the publicly resolvable URL for an object. The
// record stores this URL, not the storage key.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + publicPrefix + bucket + "/" + path
}

// Remove issues a bulk delete of objects from a bucket. Used by the
// editor's best-effort cleanup on event deletion.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, bucket)

	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("failed to encode remove request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create remove request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage remove error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage remove failed: status %d", resp.StatusCode)
	}
	return nil
}

// PathFromPublicURL extracts the storage-relative path from a public
// URL: everything after the "/{bucket}/" marker. The second return is
// false for URLs that do not reference the bucket.
func PathFromPublicURL(url, bucket string) (string, bool) {
	marker := "/" + bucket + "/"
	parts := strings.SplitN(url, marker, 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
