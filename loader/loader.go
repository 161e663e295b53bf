// Package loader fetches a remote feed through a transport.Client and
// delivers its decoded items to a completion callback.
package loader

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"weak"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/richardwooding/feed-loader/model"
	"github.com/richardwooding/feed-loader/transport"
	"github.com/sirupsen/logrus"
)

// Config configures a RemoteFeedLoader
type Config struct {
	URL             string
	Client          transport.Client
	Logger          logrus.FieldLogger
	AllowPrivateIPs bool
}

// RemoteFeedLoader loads the feed at a fixed URL. It holds no per-call state,
// so Load may be called any number of times, concurrently.
//
// Pending loads do not keep the loader alive. Once the loader is garbage
// collected or closed, results that arrive afterwards are dropped without
// calling the completion.
type RemoteFeedLoader struct {
	url    string
	client transport.Client
	logger logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// New creates a loader for config.URL. The URL must be an absolute http(s) URL;
// private and loopback hosts are refused unless AllowPrivateIPs is set.
func New(config Config) (*RemoteFeedLoader, error) {
	if config.Client == nil {
		return nil, model.NewFeedError(model.ErrorTypeConfiguration, "A transport client is required").
			WithComponent("feed_loader")
	}
	if _, err := model.ValidateFeedURL(config.URL, config.AllowPrivateIPs); err != nil {
		return nil, model.CreateValidationError(err, config.URL)
	}
	if config.Logger == nil {
		config.Logger = model.DiscardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &RemoteFeedLoader{
		url:    config.URL,
		client: config.Client,
		logger: config.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	// In-flight requests of a collected loader have nobody to deliver to.
	runtime.AddCleanup(l, func(cancel context.CancelFunc) { cancel() }, cancel)

	return l, nil
}

// URL returns the feed URL
func (l *RemoteFeedLoader) URL() string {
	return l.url
}

// Load requests the feed and calls completion exactly once with the outcome,
// unless the loader is discarded before the response arrives.
func (l *RemoteFeedLoader) Load(completion func(model.LoadResult)) {
	requestID := gonanoid.Must()
	logger := l.logger.WithFields(logrus.Fields{
		"url":        l.url,
		"request_id": requestID,
	})
	ctx := transport.WithRequestID(l.ctx, requestID)

	self := weak.Make(l)
	l.client.Get(ctx, l.url, func(res transport.Result) {
		loader := self.Value()
		if loader == nil || loader.closed.Load() {
			logger.Debug("loader discarded, dropping result")
			return
		}
		completion(loader.result(res, logger))
	})
}

// Close discards the loader: in-flight requests are canceled and their
// results are not delivered. Close is idempotent.
func (l *RemoteFeedLoader) Close() {
	if l.closed.CompareAndSwap(false, true) {
		l.cancel()
	}
}

func (l *RemoteFeedLoader) result(res transport.Result, logger *logrus.Entry) model.LoadResult {
	if res.Err != nil {
		logFailure(logger, res.Err)
		return model.Failure(model.Connectivity)
	}

	items, err := Map(res.Data, res.Response.StatusCode)
	if err != nil {
		var fe *model.FeedError
		if errors.As(err, &fe) {
			fe.WithURL(l.url)
			// Map only sees the status code; attach the response headers to status errors.
			if fe.HTTPStatus != 0 {
				fe.WithHTTP(res.Response.StatusCode, res.Response.Header)
			}
		}
		logFailure(logger, err)
		return model.Failure(model.InvalidData)
	}

	logger.WithFields(logrus.Fields{
		"status":    res.Response.StatusCode,
		"final_url": res.Response.URL,
		"items":     len(items),
	}).Debug("feed loaded")

	return model.Success(items)
}

func logFailure(logger *logrus.Entry, err error) {
	var fe *model.FeedError
	if errors.As(err, &fe) {
		model.LogFeedError(logger, fe)
		return
	}
	logger.WithError(err).Warn("feed load failed")
}
