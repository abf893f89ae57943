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
	"github.com/kubewharf/lifeptr/util/util"
)

// Destruction policy of a register.
type Policy uint8

const (
	// Only the register is released when the share count reaches zero.
	// The pointee is managed by someone else.
	PolicyNonOwning Policy = iota
	// The pointee is disposed together with the register when the share count reaches zero.
	PolicyOwning
)

func (policy Policy) String() string {
	switch policy {
	case PolicyNonOwning:
		return "NonOwning"
	case PolicyOwning:
		return "Owning"
	default:
		return "Unknown"
	}
}

// Type-level marker for handles bound to a PolicyNonOwning register.
type NonOwning struct{}

// Type-level marker for handles bound to a PolicyOwning register.
type Owning struct{}

// The closed set of policy markers that parameterize the handle core.
type Kind interface {
	NonOwning | Owning
}

func policyOf[P Kind]() Policy {
	if _, isOwning := any(util.Zero[P]()).(Owning); isOwning {
		return PolicyOwning
	}

	return PolicyNonOwning
}

// Implemented by pointees that need to free resources when an owning register is destroyed.
//
// Dispose is called at most once, from the goroutine that releases the last handle.
type Disposer interface {
	Dispose()
}

func disposerOf[T any](value T) func() {
	if util.IsNil(value) {
		return nil
	}

	disposer, isDisposer := any(value).(Disposer)
	if !isDisposer {
		return nil
	}

	return disposer.Dispose
}
