package observable

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/turbot/brewery-pipeline/events"
)

// ObservableImpl is embedded in every stage to hold its observers
type ObservableImpl struct {
	mu        sync.Mutex
	observers []Observer
}

func (p *ObservableImpl) AddObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// NotifyObservers sends the event to each observer in the order they were added.
// Every observer is notified even if an earlier one fails; the failures are joined.
func (p *ObservableImpl) NotifyObservers(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	observers := slices.Clone(p.observers)
	p.mu.Unlock()

	var errs []error
	for _, o := range observers {
		if err := o.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
