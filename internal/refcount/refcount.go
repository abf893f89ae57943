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

// Package refcount provides the atomic share counter behind a handle register.
package refcount

import (
	"math"
	"sync/atomic"
)

// A reference counter that is fused (denies subsequent acquisitions) once the last reference is released.
type Counter struct {
	// When rc == 0, the counter has no references and is not fused yet.
	// When -2^30 <= rc < 0, the counter is fused.
	// When rc > 0, the counter is referenced and cannot be fused.
	// The range between -2^31 and -2^30 is always a result of integer overflow or double release, and should lead to panic.
	rc atomic.Int32
}

// Adds a reference to the counter.
//
// Returns true if the reference was added.
// Returns false if the counter has been fused.
//
// Panics if an integer overflow condition is detected.
func (counter *Counter) Acquire() bool {
	newValue := counter.rc.Add(1)

	if newValue > 0 {
		return true
	}

	if newValue == 0 {
		// Either another goroutine performed double release (panicking),
		// or 2^30 acquisition attempts took place after fuse.
		panic("too many acquire attempts after fuse")
	}

	if newValue == math.MinInt32 {
		panic("too many concurrent acquisitions")
	}

	// Fused. Undo our increment so that the fused value does not drift towards zero.
	counter.rc.Add(-1)

	return false
}

// Removes a reference from the counter.
// Must be called exactly once after a successful Acquire.
//
// Returns true if this call released the last reference.
// The caller is then expected to call Fuse.
func (counter *Counter) Release() (_last bool) {
	newValue := counter.rc.Add(-1)

	if newValue < 0 {
		// If unfused, there are more Release calls than Acquire calls.
		// If fused, every reference was already returned before fuse.
		panic("double release detected")
	}

	return newValue == 0
}

const fusedInitValue = -1 << 30 // -2^30

// Deny all future acquisitions on this counter.
//
// Returns false if a reference was acquired again after the last release.
func (counter *Counter) Fuse() bool {
	return counter.rc.CompareAndSwap(0, fusedInitValue)
}

// Returns the current number of references. A fused counter has no references.
func (counter *Counter) Load() int {
	value := counter.rc.Load()
	if value < 0 {
		return 0
	}

	return int(value)
}

func (counter *Counter) Fused() bool {
	return counter.rc.Load() < 0
}
