package connectivity

import (
	"context"
	"net/http"
	"time"
)

// Prober feeds a Monitor from periodic HTTP reachability checks against the
// remote API, standing in for a platform connectivity signal.
type Prober struct {
	monitor  *Monitor
	client   *http.Client
	url      string
	interval time.Duration
}

// NewProber creates a Prober that checks url every interval.
func NewProber(monitor *Monitor, url string, interval time.Duration) *Prober {
	return &Prober{
		monitor: monitor,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		url:      url,
		interval: interval,
	}
}

// Check performs a single reachability probe and updates the monitor.
// Any HTTP response counts as reachable, even an error status; only a
// transport failure means the network is down.
func (p *Prober) Check(ctx context.Context) State {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.monitor.Set(StateOffline)
		return StateOffline
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.monitor.Set(StateOffline)
		return StateOffline
	}
	resp.Body.Close()

	p.monitor.Set(StateOnline)
	return StateOnline
}

// Run probes until the context is cancelled. An initial probe fires
// immediately so process start establishes a real state.
func (p *Prober) Run(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
