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

	"github.com/kubewharf/lifeptr/util/errors"
	"github.com/kubewharf/lifeptr/util/util"
)

// Embedded by value in a pointee struct to let the pointee obtain handles to its own register.
//
//	type Session struct {
//		handle.SelfRef
//		...
//	}
//
// The back-reference is installed when an owner of a *Session is created or moved.
// When the register is destroyed, the pointee reference is dropped
// and later requests fail with ErrExpired.
type SelfRef struct {
	slot atomic.Pointer[backRef]
}

type backRef struct {
	reg   *Register
	value any
}

type selfReferencing interface {
	selfRef() *SelfRef
}

func (selfRef *SelfRef) selfRef() *SelfRef { return selfRef }

// Whether an owner has been installed and its register is not destroyed yet.
func (selfRef *SelfRef) Bound() bool {
	ref := selfRef.slot.Load()
	return ref != nil && !ref.reg.Destroyed()
}

func (selfRef *SelfRef) install(reg *Register, value any) {
	selfRef.slot.Store(&backRef{reg: reg, value: value})
	reg.selfRef.Store(selfRef)
}

// Replaces the back-reference to reg with a tombstone that only remembers the register.
func (selfRef *SelfRef) clear(reg *Register) {
	ref := selfRef.slot.Load()
	if ref != nil && ref.reg == reg {
		selfRef.slot.CompareAndSwap(ref, &backRef{reg: reg, value: nil})
	}
}

func installSelfRef[T any](reg *Register, value T) {
	if util.IsNil(value) {
		return
	}

	if referencing, ok := any(value).(selfReferencing); ok {
		referencing.selfRef().install(reg, value)
	}
}

// Returns a new non-owning shared handle to the register that owns the pointee embedding selfRef.
//
// The register must still be referenced by the owner or a shared handle;
// otherwise ErrExpired is returned.
func SharedFromThis[T any](selfRef *SelfRef) (*Shared[T], error) {
	output := &Shared[T]{}
	if err := shareFromThis(&output.base, selfRef); err != nil {
		return nil, err
	}

	return output, nil
}

// Returns a new owning shared handle to the register that owns the pointee embedding selfRef.
// See SharedFromThis.
func OwningSharedFromThis[T any](selfRef *SelfRef) (*OwningShared[T], error) {
	output := &OwningShared[T]{}
	if err := shareFromThis(&output.base, selfRef); err != nil {
		return nil, err
	}

	return output, nil
}

func shareFromThis[P Kind, T any](dst *base[P, T], selfRef *SelfRef) error {
	ref := selfRef.slot.Load()
	if ref == nil {
		return errors.WithStack(ErrNoOwner)
	}

	reg := ref.reg

	if reg.Destroyed() {
		return errors.Wrapf(ErrExpired, "register %d (%s)", reg.id, reg.label)
	}

	if expected := policyOf[P](); reg.policy != expected {
		return errors.Wrapf(ErrPolicyMismatch, "register %d is %s, requested %s", reg.id, reg.policy, expected)
	}

	value, ok := ref.value.(T)
	if !ok {
		if reg.Destroyed() {
			return errors.Wrapf(ErrExpired, "register %d (%s)", reg.id, reg.label)
		}

		return errors.Wrapf(ErrBadCast, "cannot share %s from this as %s", reg.label, util.TypeString[T]())
	}

	if !reg.tryIncrement() {
		return errors.Wrapf(ErrExpired, "register %d (%s)", reg.id, reg.label)
	}

	dst.reg, dst.ptr = reg, value

	return nil
}
