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
	"github.com/kubewharf/lifeptr/handle/observer"
	"github.com/kubewharf/lifeptr/util/errors"
	"github.com/kubewharf/lifeptr/util/util"
)

// Embedded in types that must not be copied after first use.
// `go vet` reports copies through the copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Common queries of every handle flavor.
type Handle interface {
	// Whether the owner of the bound register has not been released. False for empty handles.
	Alive() bool
	// Share count of the bound register. Zero for empty handles.
	UseCount() int
	// Whether the handle is empty or its pointee is nil.
	IsNil() bool

	register() *Register
}

// A handle that can be shared or cast into handles of policy P.
type Source[P Kind, T any] interface {
	Handle

	binding() (*Register, T)
	kind() P
}

// Reports whether two handles are bound to the same register.
// Handles of different pointee types compare equal after a cast.
func Equal(left, right Handle) bool {
	return registerOf(left) == registerOf(right)
}

func registerOf(handle Handle) *Register {
	if handle == nil {
		return nil
	}

	return handle.register()
}

// The machinery shared by all four handle flavors.
type base[P Kind, T any] struct {
	_ noCopy

	reg *Register
	ptr T
}

func (handle *base[P, T]) register() *Register { return handle.reg }

func (handle *base[P, T]) binding() (*Register, T) { return handle.reg, handle.ptr }

func (*base[P, T]) kind() P { return util.Zero[P]() }

// The register this handle is bound to, or nil for an empty handle.
func (handle *base[P, T]) Register() *Register { return handle.reg }

// Returns the pointee without locking.
// Callers accessing the pointee from multiple goroutines must use Lock instead.
func (handle *base[P, T]) Get() T { return handle.ptr }

func (handle *base[P, T]) Alive() bool {
	if handle.reg == nil {
		return false
	}

	return handle.reg.Alive()
}

func (handle *base[P, T]) UseCount() int {
	if handle.reg == nil {
		return 0
	}

	return handle.reg.UseCount()
}

func (handle *base[P, T]) IsNil() bool {
	return handle.reg == nil || util.IsNil(handle.ptr)
}

func (handle *base[P, T]) Equal(other Handle) bool {
	return handle.reg == registerOf(other)
}

// Acquires the register mutex and returns a guard over the pointee.
//
// Blocks until the mutex is available. Panics if the handle is empty.
func (handle *base[P, T]) Lock() *Guard[T] {
	if handle.reg == nil {
		panic(errors.Wrapf(ErrEmptyHandle, "cannot lock %s", util.TypeString[T]()))
	}

	return lockRegister(handle.reg, handle.ptr)
}

// Calls fn with the pointee while holding the register mutex.
// The mutex is released when fn returns or panics.
func (handle *base[P, T]) WithLock(fn func(value T, alive bool)) {
	guard := handle.Lock()
	defer guard.Unlock()

	fn(guard.Get(), guard.Alive())
}

// Binds to reg and adds one reference. A nil reg leaves the handle empty.
func (handle *base[P, T]) bind(reg *Register, ptr T) {
	if reg == nil {
		handle.reg, handle.ptr = nil, util.Zero[T]()
		return
	}

	reg.increment()

	handle.reg, handle.ptr = reg, ptr
}

// Drops the reference held by this handle, destroying the register if it was the last one.
func (handle *base[P, T]) release() {
	reg := handle.reg
	if reg == nil {
		return
	}

	handle.reg, handle.ptr = nil, util.Zero[T]()

	reg.decrement()
}

// Rebinds to reg.
// Rebinding to the register already held only replaces the pointee,
// so the count never drops transiently and no reference is leaked.
func (handle *base[P, T]) assign(reg *Register, ptr T) {
	if handle.reg != nil && handle.reg == reg {
		handle.ptr = ptr
		return
	}

	// Take the new reference first so that releasing the old binding
	// cannot destroy a register that reg depends on through the pointee.
	old := handle.reg

	handle.bind(reg, ptr)

	if old != nil {
		old.decrement()
	}
}

// Transfers the binding of src to this handle without changing the count.
// The receiver must be empty.
func (handle *base[P, T]) moveFrom(src *base[P, T]) {
	handle.reg, handle.ptr = src.reg, src.ptr
	src.reg, src.ptr = nil, util.Zero[T]()

	if handle.reg != nil {
		installSelfRef(handle.reg, handle.ptr)

		tracker := handle.reg.tracker
		tracker.observer.OwnerTransferred(tracker.ctx, observer.OwnerTransferred{
			Tracker: tracker.name,
			Label:   handle.reg.label,
			Policy:  handle.reg.policy.String(),
		})
	}
}

// Releases ownership: clears the alive flag, then drops the owner's reference.
func (handle *base[P, T]) releaseOwnership() {
	reg := handle.reg
	if reg == nil {
		return
	}

	reg.alive.Store(false)

	tracker := reg.tracker
	tracker.observer.OwnerReleased(tracker.ctx, observer.OwnerReleased{
		Tracker:  tracker.name,
		Label:    reg.label,
		Policy:   reg.policy.String(),
		UseCount: reg.UseCount(),
	})

	handle.release()
}

// Binds to a new register with the owner's reference and marks it alive.
func (handle *base[P, T]) initOwner(ptr T, options []Option) {
	config := newConfig[T](options)

	policy := policyOf[P]()

	var dispose func()
	if policy == PolicyOwning {
		dispose = disposerOf(ptr)
	}

	tracker := config.tracker
	reg := tracker.newRegister(policy, config.label, dispose)

	handle.bind(reg, ptr)
	installSelfRef(reg, ptr)
	reg.alive.Store(true)

	tracker.observer.OwnerCreated(tracker.ctx, observer.OwnerCreated{
		Tracker: tracker.name,
		ID:      reg.id,
		Label:   reg.label,
		Policy:  policy.String(),
	})
}
