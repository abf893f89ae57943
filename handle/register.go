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
	"sync"
	"sync/atomic"
	"time"

	"github.com/kubewharf/lifeptr/internal/refcount"
	"github.com/kubewharf/lifeptr/util/errors"
)

// The control block shared by every handle of one ownership chain.
//
// The share count and the alive flag are atomics and never take the mutex.
// The mutex only serializes pointee access through Guard.
type Register struct {
	id      uint64
	label   string
	policy  Policy
	tracker *Tracker
	created time.Time

	count refcount.Counter
	alive atomic.Bool
	mu    sync.Mutex

	// Owning policy only. Cleared after the first call.
	dispose func()

	// Back-reference to clear when the register is destroyed.
	selfRef atomic.Pointer[SelfRef]
}

// Unique within the tracker that created the register.
func (reg *Register) ID() uint64 { return reg.id }

func (reg *Register) Label() string { return reg.label }

func (reg *Register) Policy() Policy { return reg.policy }

func (reg *Register) Tracker() *Tracker { return reg.tracker }

// Number of handles currently bound to this register, including the owner.
func (reg *Register) UseCount() int { return reg.count.Load() }

// Whether the owner handle has not been released yet.
func (reg *Register) Alive() bool { return reg.alive.Load() }

// Whether the share count has reached zero and the destroy policy has run.
func (reg *Register) Destroyed() bool { return reg.count.Fused() }

func (reg *Register) increment() {
	if !reg.count.Acquire() {
		panic(errors.Wrapf(ErrExpired, "cannot share register %d (%s)", reg.id, reg.label))
	}
}

func (reg *Register) tryIncrement() bool {
	return reg.count.Acquire()
}

func (reg *Register) decrement() {
	if reg.count.Release() {
		reg.destroy()
	}
}

func (reg *Register) destroy() {
	if !reg.count.Fuse() {
		// A self-reference acquired the register again after the last release.
		// Its own release will destroy the register.
		return
	}

	if selfRef := reg.selfRef.Swap(nil); selfRef != nil {
		selfRef.clear(reg)
	}

	disposedPointee := false

	switch reg.policy {
	case PolicyOwning:
		if reg.dispose != nil {
			reg.dispose()
		}

		disposedPointee = true
	case PolicyNonOwning:
		// the pointee belongs to someone else
	}

	reg.dispose = nil

	reg.tracker.untrack(reg, disposedPointee)
}
