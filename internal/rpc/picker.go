// Package rpc chooses which of a network's RPC endpoints to deploy through.
package rpc

import "errors"

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest  Algorithm = "fastest"
	AlgorithmFailover Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// Pick selects an endpoint from probed endpoints. Fastest scores healthy,
// up-to-date endpoints by latency and recency; failover takes the first healthy
// endpoint in list order. An unknown algorithm behaves like fastest.
func Pick(endpoints []Endpoint, algo Algorithm) (*Endpoint, error) {
	if algo == AlgorithmFailover {
		return pickFailover(endpoints)
	}
	return pickFastest(endpoints)
}

func pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	bestBlock := bestBlock(endpoints)

	var winner *Endpoint
	var bestScore float64
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy || stale(e.BlockNumber, bestBlock) {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner = e
			bestScore = s
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

func pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	bestBlock := bestBlock(endpoints)
	for i := range endpoints {
		e := &endpoints[i]
		if e.Healthy && !stale(e.BlockNumber, bestBlock) {
			return e, nil
		}
	}
	return nil, ErrNoHealthyRPC
}

// --- scoring ---

func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64

	// Latency score: higher = faster.
	if e.Latency > 0 {
		s += 1.0 / e.Latency.Seconds()
	}

	// Loses 1 point per block behind the best node.
	s -= float64(bestBlock - e.BlockNumber)
	return s
}

func bestBlock(endpoints []Endpoint) uint64 {
	var best uint64
	for _, e := range endpoints {
		if e.Healthy && e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	return best
}

func stale(block, best uint64) bool {
	return best > block && best-block > staleBlockThreshold
}
