// Package runner executes user code against remote, keyless execution
// services. Backends are unreliable, so the proxy keeps an ordered list of
// adapters and returns the first result that comes back.
package runner

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Result is the normalized outcome every backend adapter maps onto.
type Result struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// ErrAllRunnersFailed is returned when every backend in the chain failed.
// Individual backend errors are logged, never surfaced to the caller.
var ErrAllRunnersFailed = errors.New("all execution runners failed")

// Runner adapts one remote execution provider's protocol.
type Runner interface {
	Name() string
	Run(ctx context.Context, language, source string) (*Result, error)
}

type Proxy struct {
	runners []Runner
	log     *logrus.Entry
}

func NewProxy(runners ...Runner) *Proxy {
	return &Proxy{
		runners: runners,
		log:     logrus.WithField("component", "runner"),
	}
}

// Execute tries each runner in order and returns the first success. Any
// failure (network, bad status, malformed response, poll budget exceeded)
// just advances to the next runner.
func (p *Proxy) Execute(ctx context.Context, language, source string) (*Result, error) {
	for _, r := range p.runners {
		res, err := r.Run(ctx, language, source)
		if err != nil {
			p.log.WithError(err).WithField("runner", r.Name()).Warn("runner failed, trying next")
			continue
		}
		return res, nil
	}
	return nil, ErrAllRunnersFailed
}
