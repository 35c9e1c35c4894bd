package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
)

// Endpoint is one RPC URL with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool
	Err         error
}

// Probe measures a single endpoint.
type Probe func(ctx context.Context, url string) (latency time.Duration, block uint64, err error)

// DialProbe connects to url and reads the latest block number.
func DialProbe(ctx context.Context, url string) (time.Duration, uint64, error) {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer c.Close()
	return chain.Ping(ctx, c)
}

// Benchmark probes all urls in parallel, each bounded by timeout, and returns the
// results in input order.
func Benchmark(ctx context.Context, urls []string, probe Probe, timeout time.Duration) []Endpoint {
	results := make([]Endpoint, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			latency, block, err := probe(pctx, u)
			results[idx] = Endpoint{
				URL:         u,
				Latency:     latency,
				BlockNumber: block,
				Healthy:     err == nil,
				Err:         err,
			}
		}(i, url)
	}

	wg.Wait()
	return results
}

// Select returns the best of urls. A single URL is returned without probing.
func Select(ctx context.Context, urls []string, algo Algorithm, probe Probe, timeout time.Duration) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	winner, err := Pick(Benchmark(ctx, urls, probe, timeout), algo)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
