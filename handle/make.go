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
	"github.com/kubewharf/lifeptr/util/optional"
	"github.com/kubewharf/lifeptr/util/util"
)

// Configures the register created by a Make function.
type Option func(*config)

type config struct {
	tracker optional.Optional[*Tracker]
	label   optional.Optional[string]
}

func newConfig[T any](options []Option) resolvedConfig {
	cfg := config{
		tracker: optional.None[*Tracker](),
		label:   optional.None[string](),
	}

	for _, option := range options {
		option(&cfg)
	}

	return resolvedConfig{
		tracker: cfg.tracker.GetOrFn(DefaultTracker),
		label:   cfg.label.GetOrFn(util.TypeString[T]),
	}
}

type resolvedConfig struct {
	tracker *Tracker
	label   string
}

// Creates the register through tracker instead of DefaultTracker.
func WithTracker(tracker *Tracker) Option {
	return func(cfg *config) {
		if tracker != nil {
			cfg.tracker = optional.Some(tracker)
		}
	}
}

// Overrides the label reported for the register. Defaults to the pointee type.
func WithLabel(label string) Option {
	return func(cfg *config) { cfg.label = optional.Some(label) }
}

// Creates the owner of an externally managed pointee.
// The pointee is never disposed by this package.
func MakeOwner[T any](ptr T, options ...Option) *Owner[T] {
	owner := &Owner[T]{}
	owner.initOwner(ptr, options)

	return owner
}

// Copies value into a new allocation and creates its owner.
func MakeOwningOwner[V any](value V, options ...Option) *OwningOwner[*V] {
	ptr := new(V)
	*ptr = value

	return AdoptOwningOwner(ptr, options...)
}

// Creates the owner of an existing pointee, taking over its disposal.
// The caller must not dispose ptr itself afterwards.
func AdoptOwningOwner[T any](ptr T, options ...Option) *OwningOwner[T] {
	owner := &OwningOwner[T]{}
	owner.initOwner(ptr, options)

	return owner
}

// Constructs the pointee with ctor and creates its owner.
func NewOwningOwner[T any](ctor func() T, options ...Option) *OwningOwner[T] {
	return AdoptOwningOwner(ctor(), options...)
}
