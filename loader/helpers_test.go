package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"testing"
	"time"
	"weak"

	"github.com/google/uuid"
	"github.com/richardwooding/feed-loader/model"
	"github.com/richardwooding/feed-loader/transport"
	"github.com/stretchr/testify/require"
)

const anyFeedURL = "https://93.184.216.34/feed"

type message struct {
	ctx        context.Context
	url        string
	completion func(transport.Result)
}

// clientSpy records every Get and completes it only when a test says so
type clientSpy struct {
	mu       sync.Mutex
	messages []message
}

var _ transport.Client = (*clientSpy)(nil)

func (c *clientSpy) Get(ctx context.Context, url string, completion func(transport.Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message{ctx: ctx, url: url, completion: completion})
}

func (c *clientSpy) requestedURLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, 0, len(c.messages))
	for _, m := range c.messages {
		urls = append(urls, m.url)
	}
	return urls
}

func (c *clientSpy) message(t *testing.T, index int) message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	require.Less(t, index, len(c.messages), "no request at index %d", index)
	return c.messages[index]
}

func (c *clientSpy) completeWithError(t *testing.T, err error, index int) {
	t.Helper()
	c.message(t, index).completion(transport.Result{Err: err})
}

func (c *clientSpy) completeWithStatus(t *testing.T, code int, data []byte, index int) {
	t.Helper()
	m := c.message(t, index)
	m.completion(transport.Result{
		Data:     data,
		Response: transport.Response{StatusCode: code, URL: m.url},
	})
}

// resultRecorder collects delivered results; completions may run on any goroutine
type resultRecorder struct {
	mu      sync.Mutex
	results []model.LoadResult
}

func (r *resultRecorder) record(result model.LoadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *resultRecorder) all() []model.LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LoadResult(nil), r.results...)
}

func makeSUT(t *testing.T) (*RemoteFeedLoader, *clientSpy) {
	t.Helper()

	client := &clientSpy{}
	sut, err := New(Config{URL: anyFeedURL, Client: client})
	require.NoError(t, err)

	trackForMemoryLeaks(t, sut)
	return sut, client
}

// trackForMemoryLeaks fails the test if instance is still reachable once the test returns
func trackForMemoryLeaks[T any](t *testing.T, instance *T) {
	t.Helper()

	name := fmt.Sprintf("%T", instance)
	ref := weak.Make(instance)
	t.Cleanup(func() {
		if !collected(ref) {
			t.Errorf("%s should have been collected, potential memory leak", name)
		}
	})
}

func collected[T any](ref weak.Pointer[T]) bool {
	for range 20 {
		runtime.GC()
		if ref.Value() == nil {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func expect(t *testing.T, sut *RemoteFeedLoader, expected model.LoadResult, action func()) {
	t.Helper()

	var recorder resultRecorder
	sut.Load(recorder.record)

	action()

	results := recorder.all()
	require.Len(t, results, 1, "expected exactly one completion")
	require.Truef(t, expected.Equal(results[0]), "expected %v, got %v", expected, results[0])
}

func ptr(s string) *string { return &s }

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// makeItem returns an item and its wire representation, which omits absent optionals
func makeItem(t *testing.T, id uuid.UUID, description, location *string, imageURL string) (model.FeedItem, map[string]any) {
	t.Helper()

	item := model.FeedItem{
		ID:          id,
		Description: description,
		Location:    location,
		ImageURL:    mustParseURL(t, imageURL),
	}

	wire := map[string]any{
		"id":    id.String(),
		"image": imageURL,
	}
	if description != nil {
		wire["description"] = *description
	}
	if location != nil {
		wire["location"] = *location
	}

	return item, wire
}

func makeItemsJSON(t *testing.T, items ...map[string]any) []byte {
	t.Helper()

	if items == nil {
		items = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{"items": items})
	require.NoError(t, err)
	return data
}
