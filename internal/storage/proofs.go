// Package storage holds the proof-screenshot blob store. The production
// implementation talks to a hosted storage API over HTTP; tests substitute
// an in-process fake behind the same interface.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProofStore stores uploaded payment-proof images and serves them back by
// public URL. Remove exists only for best-effort compensation after a failed
// vote insert.
type ProofStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
	Remove(ctx context.Context, path string) error
}

// BucketClient is a ProofStore backed by a Supabase-style storage REST API:
// objects live under a named bucket and public URLs are derived, not
// returned by the server.
type BucketClient struct {
	baseURL string
	bucket  string
	apiKey  string
	client  *http.Client
}

func NewBucketClient(baseURL, bucket, apiKey string) *BucketClient {
	return &BucketClient{
		baseURL: baseURL,
		bucket:  bucket,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *BucketClient) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", b.baseURL, b.bucket, path)
}

func (b *BucketClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("proof upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("proof upload failed: %s: %s", resp.Status, body)
	}
	return nil
}

func (b *BucketClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", b.baseURL, b.bucket, path)
}

func (b *BucketClient) Remove(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.objectURL(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("proof removal failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("proof removal failed: %s: %s", resp.Status, body)
	}
	return nil
}
