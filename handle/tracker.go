// Copyright 2024 The Podseidon Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handle

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"k8s.io/utils/clock"

	"github.com/kubewharf/lifeptr/handle/observer"
	"github.com/kubewharf/lifeptr/util/optional"
	"github.com/kubewharf/lifeptr/util/util"
)

type TrackerOptions struct {
	// Name reported to the observer. Defaults to "default".
	Name string
	// Defaults to a no-op observer.
	Observer optional.Optional[observer.Observer]
	// Clock used for register ages and lock durations. Defaults to the real clock.
	Clock clock.PassiveClock
}

// Accounts for the registers created through it and reports their lifecycle to an observer.
//
// A Tracker is safe for concurrent use.
type Tracker struct {
	name     string
	ctx      context.Context
	observer observer.Observer
	clock    clock.PassiveClock

	nextID atomic.Uint64
	live   *xsync.MapOf[uint64, *Register]
	size   atomic.Int64
	peak   atomic.Int64
}

// Creates a tracker.
//
// ctx is passed to every observer call and bounds the LiveRegisters monitor.
func NewTracker(ctx context.Context, options TrackerOptions) *Tracker {
	name := options.Name
	if name == "" {
		name = "default"
	}

	clk := options.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	obs := observer.Populate(options.Observer.GetOrFn(observer.Noop))

	tracker := &Tracker{
		name:     name,
		ctx:      ctx,
		observer: obs,
		clock:    clk,
		nextID:   atomic.Uint64{},
		live:     xsync.NewMapOf[uint64, *Register](),
		size:     atomic.Int64{},
		peak:     atomic.Int64{},
	}

	go obs.LiveRegisters(ctx, observer.LiveRegisters{Tracker: name}, tracker.Live)

	return tracker
}

//nolint:gochecknoglobals // shared fallback for callers that do not configure a tracker
var defaultTracker = sync.OnceValue(func() *Tracker {
	return NewTracker(context.Background(), TrackerOptions{
		Name:     "default",
		Observer: optional.None[observer.Observer](),
		Clock:    nil,
	})
})

// The tracker used by Make functions when WithTracker is not specified.
func DefaultTracker() *Tracker { return defaultTracker() }

func (tracker *Tracker) Name() string { return tracker.name }

// Number of registers created through this tracker that have not been destroyed yet.
func (tracker *Tracker) Live() int { return int(tracker.size.Load()) }

// Highest value Live has ever reached.
func (tracker *Tracker) Peak() int { return int(tracker.peak.Load()) }

// Point-in-time view of a live register.
type RegisterInfo struct {
	ID       uint64
	Label    string
	Policy   Policy
	UseCount int
	Alive    bool
	Age      time.Duration
}

// Lists the live registers ordered by ID.
func (tracker *Tracker) Snapshot() []RegisterInfo {
	output := []RegisterInfo{}

	tracker.live.Range(func(_ uint64, reg *Register) bool {
		output = append(output, RegisterInfo{
			ID:       reg.id,
			Label:    reg.label,
			Policy:   reg.policy,
			UseCount: reg.UseCount(),
			Alive:    reg.Alive(),
			Age:      tracker.clock.Since(reg.created),
		})

		return true
	})

	slices.SortFunc(output, func(left, right RegisterInfo) int {
		switch {
		case left.ID < right.ID:
			return -1
		case left.ID > right.ID:
			return 1
		default:
			return 0
		}
	})

	return output
}

func (tracker *Tracker) newRegister(policy Policy, label string, dispose func()) *Register {
	//nolint:exhaustruct // atomics and mutex start at their zero values
	reg := &Register{
		id:      tracker.nextID.Add(1),
		label:   label,
		policy:  policy,
		tracker: tracker,
		created: tracker.clock.Now(),
		dispose: dispose,
	}

	tracker.live.Store(reg.id, reg)

	size := tracker.size.Add(1)
	util.AtomicMax[int64](&tracker.peak, size)

	return reg
}

func (tracker *Tracker) untrack(reg *Register, disposedPointee bool) {
	tracker.live.Delete(reg.id)
	tracker.size.Add(-1)

	tracker.observer.RegisterDestroyed(tracker.ctx, observer.RegisterDestroyed{
		Tracker:         tracker.name,
		Label:           reg.label,
		Policy:          reg.policy.String(),
		Lifetime:        tracker.clock.Since(reg.created),
		DisposedPointee: disposedPointee,
	})
}
