package services

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// CircuitBreakerService keeps one breaker per projection source, created on
// first use.
type CircuitBreakerService struct {
	mu        sync.Mutex
	breakers  map[string]*gobreaker.CircuitBreaker
	threshold uint32
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	if threshold < 1 {
		threshold = 1
	}
	return &CircuitBreakerService{
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
		threshold: uint32(threshold),
		timeout:   timeout,
		logger:    logger,
	}
}

func (cb *CircuitBreakerService) breaker(source string) *gobreaker.CircuitBreaker {
	name := strings.ToLower(source)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if b, ok := cb.breakers[name]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cb.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cb.threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			cb.logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"source":    name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	cb.breakers[name] = b
	return b
}

// Execute wraps a call to a source with circuit breaker protection.
func (cb *CircuitBreakerService) Execute(source string, fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker(source).Execute(fn)
}

// GetState returns the current state of a source's breaker.
func (cb *CircuitBreakerService) GetState(source string) gobreaker.State {
	return cb.breaker(source).State()
}
