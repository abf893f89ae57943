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

package observer

import (
	"time"

	"github.com/kubewharf/lifeptr/util/o11y"
)

// Lifecycle hooks of a handle tracker.
//
// Hooks are called synchronously on the goroutine performing the operation,
// so they must not block and must not lock handles of the register being reported.
type Observer struct {
	OwnerCreated      o11y.ObserveFunc[OwnerCreated]
	OwnerTransferred  o11y.ObserveFunc[OwnerTransferred]
	OwnerReleased     o11y.ObserveFunc[OwnerReleased]
	RegisterDestroyed o11y.ObserveFunc[RegisterDestroyed]

	Locked   o11y.ObserveFunc[Locked]
	Unlocked o11y.ObserveFunc[Unlocked]

	CastFailed o11y.ObserveFunc[CastFailed]

	LiveRegisters o11y.MonitorFunc[LiveRegisters, int]
}

func (Observer) ComponentName() string { return "lifeptr" }

func (observer Observer) Join(other Observer) Observer { return o11y.ReflectJoin(observer, other) }

func Noop() Observer { return o11y.ReflectNoop[Observer]() }

// Fills unset hooks with no-ops.
func Populate(observer Observer) Observer { return o11y.ReflectPopulate(observer) }

type OwnerCreated struct {
	Tracker string
	ID      uint64
	Label   string
	Policy  string
}

type OwnerTransferred struct {
	Tracker string
	Label   string
	Policy  string
}

type OwnerReleased struct {
	Tracker string
	Label   string
	Policy  string
	// Share count right before the owner's reference is dropped.
	UseCount int
}

type RegisterDestroyed struct {
	Tracker         string
	Label           string
	Policy          string
	Lifetime        time.Duration
	DisposedPointee bool
}

type Locked struct {
	Tracker string
	Label   string
	Wait    time.Duration
}

type Unlocked struct {
	Tracker string
	Label   string
	Held    time.Duration
}

type CastFailed struct {
	Tracker string
	Label   string
	From    string
	To      string
	Err     error
}

type LiveRegisters struct {
	Tracker string
}
