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
	"sync/atomic"
	"time"

	"github.com/kubewharf/lifeptr/handle/observer"
)

// Exclusive access to a pointee for as long as the guard is held.
//
// The register mutex is not reentrant:
// locking any handle of the same register again before Unlock deadlocks.
type Guard[T any] struct {
	_ noCopy

	reg      *Register
	value    T
	alive    bool
	lockedAt time.Time
	unlocked atomic.Bool
}

func lockRegister[T any](reg *Register, value T) *Guard[T] {
	tracker := reg.tracker

	startTime := tracker.clock.Now()

	reg.mu.Lock()

	lockedAt := tracker.clock.Now()

	tracker.observer.Locked(tracker.ctx, observer.Locked{
		Tracker: tracker.name,
		Label:   reg.label,
		Wait:    lockedAt.Sub(startTime),
	})

	//nolint:exhaustruct // unlocked starts false
	return &Guard[T]{
		reg:      reg,
		value:    value,
		alive:    reg.alive.Load(),
		lockedAt: lockedAt,
	}
}

// The pointee of the handle that created this guard.
func (guard *Guard[T]) Get() T { return guard.value }

// Whether the owner was alive when the lock was acquired.
// The flag is not re-read; acquire a new guard to observe later changes.
func (guard *Guard[T]) Alive() bool { return guard.alive }

// Releases the lock. Subsequent calls are no-ops.
func (guard *Guard[T]) Unlock() {
	if guard.unlocked.Swap(true) {
		return
	}

	tracker := guard.reg.tracker
	held := tracker.clock.Since(guard.lockedAt)

	guard.reg.mu.Unlock()

	tracker.observer.Unlocked(tracker.ctx, observer.Unlocked{
		Tracker: tracker.name,
		Label:   guard.reg.label,
		Held:    held,
	})
}
