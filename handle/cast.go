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

// Retypes a non-owning handle, sharing its register.
//
// The pointee is converted with a type assertion, which covers up-casts to an implemented interface
// as well as down-casts and sibling casts back to a concrete type.
// Panics with an ErrBadCast error if the pointee does not implement To;
// it is the caller's responsibility that the cast is valid. Use TryCast to check instead.
func Cast[To any, From any](src Source[NonOwning, From]) *Shared[To] {
	return must(TryCast[To, From](src))
}

// Like Cast, but returns an ErrBadCast error instead of panicking.
func TryCast[To any, From any](src Source[NonOwning, From]) (*Shared[To], error) {
	output := &Shared[To]{}
	if err := castInto(&output.base, src, assertTo[To, From]); err != nil {
		return nil, err
	}

	return output, nil
}

// Retypes a non-owning handle with an explicitly supplied conversion, sharing its register.
// conv is not called for an empty handle.
func CastFunc[To any, From any](src Source[NonOwning, From], conv func(From) To) *Shared[To] {
	output := &Shared[To]{}
	mustCast(castInto(&output.base, src, infallible(conv)))

	return output
}

// Retypes an owning handle, sharing its register. See Cast.
func CastOwning[To any, From any](src Source[Owning, From]) *OwningShared[To] {
	return must(TryCastOwning[To, From](src))
}

// Like CastOwning, but returns an ErrBadCast error instead of panicking.
func TryCastOwning[To any, From any](src Source[Owning, From]) (*OwningShared[To], error) {
	output := &OwningShared[To]{}
	if err := castInto(&output.base, src, assertTo[To, From]); err != nil {
		return nil, err
	}

	return output, nil
}

// Retypes an owning handle with an explicitly supplied conversion, sharing its register.
// conv is not called for an empty handle.
func CastOwningFunc[To any, From any](src Source[Owning, From], conv func(From) To) *OwningShared[To] {
	output := &OwningShared[To]{}
	mustCast(castInto(&output.base, src, infallible(conv)))

	return output
}

func castInto[P Kind, To any, From any](
	dst *base[P, To],
	src Source[P, From],
	conv func(From) (To, error),
) error {
	reg, ptr := src.binding()
	if reg == nil {
		return nil
	}

	converted, err := conv(ptr)
	if err != nil {
		tracker := reg.tracker
		tracker.observer.CastFailed(tracker.ctx, observer.CastFailed{
			Tracker: tracker.name,
			Label:   reg.label,
			From:    util.TypeString[From](),
			To:      util.TypeString[To](),
			Err:     err,
		})

		return err
	}

	dst.bind(reg, converted)

	return nil
}

func assertTo[To any, From any](value From) (To, error) {
	if util.IsNil(value) {
		return util.Zero[To](), nil
	}

	converted, ok := any(value).(To)
	if !ok {
		return util.Zero[To](), errors.Wrapf(
			ErrBadCast,
			"cannot cast %s to %s",
			util.TypeString[From](),
			util.TypeString[To](),
		)
	}

	return converted, nil
}

func infallible[To any, From any](conv func(From) To) func(From) (To, error) {
	return func(value From) (To, error) { return conv(value), nil }
}

func mustCast(err error) {
	if err != nil {
		panic(err)
	}
}

func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}
