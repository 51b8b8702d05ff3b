package quoter

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"quotesentinel/internal/model"
)

// MockSource returns a scripted sequence of prices for development and testing.
// Errs[i], when non-nil, is returned instead of Prices[i]. Once the script is
// exhausted the last price repeats.
type MockSource struct {
	Prices []float64
	Errs   []error

	mu    sync.Mutex
	calls int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Quote(_ context.Context, _ Request) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if i < len(m.Errs) && m.Errs[i] != nil {
		return 0, m.Errs[i]
	}
	if len(m.Prices) == 0 {
		return 0, fmt.Errorf("mock: no prices")
	}
	if i >= len(m.Prices) {
		i = len(m.Prices) - 1
	}
	return m.Prices[i], nil
}

// Calls returns how many quotes have been requested.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Sampler turns Source quotes into price samples. Every failure, including
// timeouts and malformed values, is reported as ErrUnavailable. There are no
// retries within a call.
type Sampler struct {
	Source   Source
	Request  Request
	AmountIn float64 // human units, carried into the sample
	Timeout  time.Duration
	Now      func() time.Time
}

// NewSampler creates a new Sampler.
func NewSampler(src Source, req Request, amountIn float64, timeout time.Duration) *Sampler {
	return &Sampler{
		Source:   src,
		Request:  req,
		AmountIn: amountIn,
		Timeout:  timeout,
		Now:      time.Now,
	}
}

// Sample fetches one price.
func (s *Sampler) Sample(ctx context.Context) (model.PriceSample, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	price, err := s.Source.Quote(ctx, s.Request)
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.Source.Name(), err)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.PriceSample{}, fmt.Errorf("%w: %s: malformed price %v", ErrUnavailable, s.Source.Name(), price)
	}

	return model.PriceSample{
		Timestamp: s.Now(),
		AmountIn:  s.AmountIn,
		Price:     price,
	}, nil
}
