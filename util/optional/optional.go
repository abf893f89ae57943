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

package optional

import (
	"fmt"

	"github.com/kubewharf/lifeptr/util/util"
)

// A value that may be absent.
type Optional[T any] struct {
	value  T
	isSome bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, isSome: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{value: util.Zero[T](), isSome: false}
}

func (v Optional[T]) IsSome() bool { return v.isSome }

func (v Optional[T]) IsNone() bool { return !v.isSome }

func (v Optional[T]) GoString() string {
	if v.isSome {
		return fmt.Sprintf("Some(%#v)", v.value)
	}

	return fmt.Sprintf("None[%s]()", util.TypeString[T]())
}

func (v Optional[T]) Get() (T, bool) {
	return v.value, v.isSome
}

func (v Optional[T]) GetOr(value T) T {
	return v.GetOrFn(func() T { return value })
}

// Calls fn only if the value is absent.
func (v Optional[T]) GetOrFn(fn func() T) T {
	if v.isSome {
		return v.value
	}

	return fn()
}

func (v Optional[T]) MustGet(msg string) T {
	if !v.isSome {
		panic(fmt.Sprintf("value must exist: %s", msg))
	}

	return v.value
}

func Map[T any, U any](v Optional[T], fn func(T) U) Optional[U] {
	if v.isSome {
		return Some(fn(v.value))
	}

	return None[U]()
}

// Returns None if predicate is false.
func Filter[T any](v Optional[T], predicate func(T) bool) Optional[T] {
	if v.isSome && predicate(v.value) {
		return v
	}

	return None[T]()
}
