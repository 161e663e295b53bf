package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/richardwooding/feed-loader/loader"
	"github.com/richardwooding/feed-loader/model"
	"github.com/richardwooding/feed-loader/transport"
	"github.com/sirupsen/logrus"
)

type LoadCmd struct {
	URL               string        `arg:"" name:"url" help:"URL of the feed to load."`
	Format            string        `name:"format" default:"text" enum:"text,json" help:"Output format." env:"FEED_LOADER_FORMAT"`
	Timeout           time.Duration `name:"timeout" default:"30s" help:"Timeout for fetching the feed." env:"FEED_LOADER_TIMEOUT"`
	AllowPrivateIPs   bool          `name:"allow-private-ips" help:"Allow feeds on private networks and localhost." env:"FEED_LOADER_ALLOW_PRIVATE_IPS"`
	RequestsPerSecond float64       `name:"rps" default:"2" help:"Maximum requests per second." env:"FEED_LOADER_RPS"`
	BurstCapacity     int           `name:"burst" default:"5" help:"Request burst capacity." env:"FEED_LOADER_BURST"`
	NoCircuitBreaker  bool          `name:"no-circuit-breaker" help:"Disable the per-host circuit breaker." env:"FEED_LOADER_NO_CIRCUIT_BREAKER"`
	MaxBodyBytes      int64         `name:"max-body-bytes" default:"10485760" help:"Largest response body accepted." env:"FEED_LOADER_MAX_BODY_BYTES"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (c *LoadCmd) Run(globals *model.Globals, ctx context.Context) error {
	format, err := model.ParseOutputFormat(c.Format)
	if err != nil {
		return err
	}

	stdout, stderr := c.Stdout, c.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := globals.Logger(stderr)

	breakerEnabled := !c.NoCircuitBreaker
	client := transport.NewHTTPClient(transport.Config{
		Timeout:               c.Timeout,
		MaxBodyBytes:          c.MaxBodyBytes,
		RequestsPerSecond:     c.RequestsPerSecond,
		BurstCapacity:         c.BurstCapacity,
		CircuitBreakerEnabled: &breakerEnabled,
		Logger:                logger,
	})

	feedLoader, err := loader.New(loader.Config{
		URL:             c.URL,
		Client:          client,
		Logger:          logger,
		AllowPrivateIPs: c.AllowPrivateIPs,
	})
	if err != nil {
		return err
	}
	defer feedLoader.Close()

	done := make(chan model.LoadResult, 1)
	feedLoader.Load(func(result model.LoadResult) { done <- result })

	select {
	case result := <-done:
		items, err := result.Get()
		if !result.IsSuccess() {
			if errors.Is(err, model.Connectivity) {
				logger.WithFields(logrus.Fields{
					"url":             feedLoader.URL(),
					"circuit_breaker": client.BreakerState(feedLoader.URL()).String(),
				}).Warn("feed unreachable")
			}
			return fmt.Errorf("loading %s: %w", feedLoader.URL(), err)
		}
		return writeItems(stdout, format, items)
	case <-ctx.Done():
		logger.Info("interrupted, abandoning load")
		return ctx.Err()
	}
}

type itemOutput struct {
	ID          string  `json:"id"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Image       string  `json:"image"`
}

func writeItems(w io.Writer, format model.OutputFormat, items []model.FeedItem) error {
	if format == model.JSONFormat {
		out := make([]itemOutput, 0, len(items))
		for _, item := range items {
			out = append(out, itemOutput{
				ID:          item.ID.String(),
				Description: item.Description,
				Location:    item.Location,
				Image:       item.ImageURL.String(),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"items": out})
	}

	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s  %s\n", item.ID, item.ImageURL); err != nil {
			return err
		}
		if item.Description != nil {
			fmt.Fprintf(w, "    description: %s\n", *item.Description)
		}
		if item.Location != nil {
			fmt.Fprintf(w, "    location: %s\n", *item.Location)
		}
	}
	_, err := fmt.Fprintf(w, "%d items\n", len(items))
	return err
}
