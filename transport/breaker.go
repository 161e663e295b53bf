package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// breakerSettings configures the circuit breaker created for each host
type breakerSettings struct {
	maxRequests      uint32
	interval         time.Duration
	timeout          time.Duration
	failureThreshold uint32
}

// breakerPool lazily creates one circuit breaker per host
type breakerPool struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	settings breakerSettings
	logger   logrus.FieldLogger
}

func newBreakerPool(settings breakerSettings, logger logrus.FieldLogger) *breakerPool {
	return &breakerPool{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		settings: settings,
		logger:   logger,
	}
}

func (p *breakerPool) get(host string) *gobreaker.CircuitBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[host]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("feed-%s", host),
		MaxRequests: p.settings.maxRequests,
		Interval:    p.settings.interval,
		Timeout:     p.settings.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= p.settings.failureThreshold
		},
		// A canceled request says nothing about the health of the host
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
	p.breakers[host] = cb
	return cb
}

// state returns the breaker state for host; hosts never seen are closed
func (p *breakerPool) state(host string) gobreaker.State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[host]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

// execute runs fetch through the breaker of host. Only a non-nil Result.Err counts as a failure.
// When the breaker refuses the request, fetch is not called and the breaker error is returned.
func (p *breakerPool) execute(host string, fetch func() Result) (Result, error) {
	cb := p.get(host)

	var res Result
	_, err := cb.Execute(func() (interface{}, error) {
		res = fetch()
		return nil, res.Err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Result{}, err
	}
	return res, nil
}
