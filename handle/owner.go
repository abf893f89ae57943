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

// The sole owner of a pointee managed outside of this package.
//
// An Owner cannot be shared as an Owner, only moved with Take or Adopt.
// Releasing it marks every handle of the register as not alive.
type Owner[T any] struct {
	base[NonOwning, T]
}

// Returns a new shared handle bound to the same register.
func (handle *Owner[T]) Share() *Shared[T] {
	output := &Shared[T]{}
	output.bind(handle.reg, handle.ptr)

	return output
}

// Moves ownership into a new Owner. The receiver becomes empty.
// The share count is unchanged.
func (handle *Owner[T]) Take() *Owner[T] {
	output := &Owner[T]{}
	output.moveFrom(&handle.base)

	return output
}

// Releases the current ownership of the receiver, then moves ownership out of src.
// src becomes empty. Adopting the receiver itself is a no-op.
func (handle *Owner[T]) Adopt(src *Owner[T]) {
	if src == handle {
		return
	}

	handle.releaseOwnership()
	handle.moveFrom(&src.base)
}

// Clears the alive flag and drops the owner's reference. The handle becomes empty.
// Releasing an empty or moved-from owner is a no-op.
func (handle *Owner[T]) Release() { handle.releaseOwnership() }

// Equivalent to Release.
func (handle *Owner[T]) Reset() { handle.releaseOwnership() }

// The sole owner of a pointee that is disposed when the last handle is released.
//
// An OwningOwner cannot be shared as an OwningOwner, only moved with Take or Adopt.
// Releasing it marks every handle of the register as not alive,
// but the pointee is only disposed after every shared handle is released too.
type OwningOwner[T any] struct {
	base[Owning, T]
}

// Returns a new shared handle bound to the same register.
func (handle *OwningOwner[T]) Share() *OwningShared[T] {
	output := &OwningShared[T]{}
	output.bind(handle.reg, handle.ptr)

	return output
}

// Moves ownership into a new OwningOwner. The receiver becomes empty.
// The share count is unchanged.
func (handle *OwningOwner[T]) Take() *OwningOwner[T] {
	output := &OwningOwner[T]{}
	output.moveFrom(&handle.base)

	return output
}

// Releases the current ownership of the receiver, then moves ownership out of src.
// src becomes empty. Adopting the receiver itself is a no-op.
func (handle *OwningOwner[T]) Adopt(src *OwningOwner[T]) {
	if src == handle {
		return
	}

	handle.releaseOwnership()
	handle.moveFrom(&src.base)
}

// Clears the alive flag and drops the owner's reference. The handle becomes empty.
// Releasing an empty or moved-from owner is a no-op.
func (handle *OwningOwner[T]) Release() { handle.releaseOwnership() }

// Equivalent to Release.
func (handle *OwningOwner[T]) Reset() { handle.releaseOwnership() }
