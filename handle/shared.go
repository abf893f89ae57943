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

// A copyable handle on a pointee managed outside of this package.
// Releasing the last handle destroys the register but never touches the pointee.
//
// The zero value is an empty handle.
type Shared[T any] struct {
	base[NonOwning, T]
}

// Returns a new handle bound to the same register, adding one reference.
// Sharing an empty handle returns an empty handle.
func (handle *Shared[T]) Share() *Shared[T] {
	output := &Shared[T]{}
	output.bind(handle.reg, handle.ptr)

	return output
}

// Rebinds this handle to the register of src, releasing the previous binding.
func (handle *Shared[T]) Assign(src Source[NonOwning, T]) {
	handle.assign(src.binding())
}

// Drops this handle's reference. The handle becomes empty.
// Releasing an empty handle is a no-op.
func (handle *Shared[T]) Release() { handle.release() }

// Equivalent to assigning an empty handle.
func (handle *Shared[T]) Reset() { handle.release() }

// A copyable handle that disposes its pointee when the last handle is released.
//
// The zero value is an empty handle.
type OwningShared[T any] struct {
	base[Owning, T]
}

// Returns a new handle bound to the same register, adding one reference.
// Sharing an empty handle returns an empty handle.
func (handle *OwningShared[T]) Share() *OwningShared[T] {
	output := &OwningShared[T]{}
	output.bind(handle.reg, handle.ptr)

	return output
}

// Rebinds this handle to the register of src, releasing the previous binding.
func (handle *OwningShared[T]) Assign(src Source[Owning, T]) {
	handle.assign(src.binding())
}

// Drops this handle's reference, disposing the pointee if it was the last one.
// Releasing an empty handle is a no-op.
func (handle *OwningShared[T]) Release() { handle.release() }

// Equivalent to assigning an empty handle.
func (handle *OwningShared[T]) Reset() { handle.release() }
