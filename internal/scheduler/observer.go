package scheduler

import (
	"time"

	"github.com/iwvelando/finpulse/internal/snapshot"
)

// Observer receives scheduler events. State changes are reported with the
// scheduler's lock held, so the last StateChanged an observer sees is the
// scheduler's actual state. Methods must not block or call back into the
// Scheduler.
type Observer interface {
	StateChanged(state State)
	CycleStarted(trigger Trigger)
	CycleCompleted(trigger Trigger, published *snapshot.Snapshot, elapsed time.Duration)
	CycleAbandoned(trigger Trigger)
}

// Observers fans events out to several observers in order. The empty list
// discards events.
type Observers []Observer

func (o Observers) StateChanged(state State) {
	for _, obs := range o {
		obs.StateChanged(state)
	}
}

func (o Observers) CycleStarted(trigger Trigger) {
	for _, obs := range o {
		obs.CycleStarted(trigger)
	}
}

func (o Observers) CycleCompleted(trigger Trigger, published *snapshot.Snapshot, elapsed time.Duration) {
	for _, obs := range o {
		obs.CycleCompleted(trigger, published, elapsed)
	}
}

func (o Observers) CycleAbandoned(trigger Trigger) {
	for _, obs := range o {
		obs.CycleAbandoned(trigger)
	}
}
