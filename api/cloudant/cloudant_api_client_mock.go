package cloudant

import (
	"context"
	"fmt"
	"sync"
)

// CloudantApiClientMock replays scripted pages and records every call.
type CloudantApiClientMock struct {
	mu    sync.Mutex
	pages []SearchResponse
	err   error
	calls []SearchParams
}

// NewCloudantApiClientMock creates a mock answering successive Search calls
// with pages in order, then with empty pages.
func NewCloudantApiClientMock(pages ...SearchResponse) *CloudantApiClientMock {
	return &CloudantApiClientMock{pages: pages}
}

// FailWith makes every following call return err.
func (c *CloudantApiClientMock) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *CloudantApiClientMock) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, params)
	if c.err != nil {
		return nil, c.err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cloudant search: %w", err)
	}

	idx := len(c.calls) - 1
	if idx >= len(c.pages) {
		return &SearchResponse{Bookmark: params.Bookmark}, nil
	}
	page := c.pages[idx]
	return &page, nil
}

func (c *CloudantApiClientMock) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Calls returns a copy of the parameters of every Search call so far.
func (c *CloudantApiClientMock) Calls() []SearchParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SearchParams(nil), c.calls...)
}
