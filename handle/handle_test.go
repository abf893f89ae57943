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

package handle_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubewharf/lifeptr/handle"
)

func TestEmptyHandles(t *testing.T) {
	t.Parallel()

	shared := &handle.Shared[*plain]{}
	owningShared := &handle.OwningShared[*plain]{}
	owner := &handle.Owner[*plain]{}
	owningOwner := &handle.OwningOwner[*plain]{}

	for _, empty := range []handle.Handle{shared, owningShared, owner, owningOwner} {
		assert.False(t, empty.Alive())
		assert.Equal(t, 0, empty.UseCount())
		assert.True(t, empty.IsNil())
	}

	assert.True(t, handle.Equal(shared, owner))
	assert.True(t, handle.Equal(shared, nil))
	assert.Nil(t, shared.Get())
	assert.Nil(t, shared.Register())

	assert.NotPanics(t, func() {
		shared.Release()
		owner.Release()
		owningOwner.Reset()
	})

	assert.True(t, shared.Share().IsNil())
	assert.True(t, owner.Take().IsNil())
}

func TestShareCountArithmetic(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	disposals := &atomic.Int32{}
	owner := handle.AdoptOwningOwner(&plain{value: 1, disposals: disposals}, handle.WithTracker(tracker))
	reg := owner.Register()

	shares := []*handle.OwningShared[*plain]{}
	for n := 1; n <= 10; n++ {
		shares = append(shares, owner.Share())
		assert.Equal(t, 1+n, owner.UseCount())
	}

	for m := 1; m <= 10; m++ {
		shares[m-1].Release()
		assert.Equal(t, 1+10-m, owner.UseCount())
		assert.True(t, shares[m-1].IsNil())
	}

	assert.False(t, reg.Destroyed())
	assert.Equal(t, int32(0), disposals.Load())

	owner.Release()

	assert.True(t, reg.Destroyed())
	assert.Equal(t, 0, reg.UseCount())
	assert.Equal(t, int32(1), disposals.Load())
	assert.Equal(t, 0, tracker.Live())
}

func TestAliveFlagOutlivesOwner(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	disposals := &atomic.Int32{}
	owner := handle.MakeOwningOwner(plain{value: 3, disposals: disposals}, handle.WithTracker(tracker))
	first := owner.Share()
	second := first.Share()

	assert.True(t, owner.Alive())
	assert.True(t, first.Alive())
	assert.True(t, second.Alive())

	owner.Release()

	assert.False(t, first.Alive())
	assert.False(t, second.Alive())
	assert.Equal(t, 2, first.UseCount())
	assert.Equal(t, 3, first.Get().Value())

	first.Release()
	assert.Equal(t, int32(0), disposals.Load())
	assert.Equal(t, 3, second.Get().Value())

	second.Release()
	assert.Equal(t, int32(1), disposals.Load())
}

func TestSharedHandleTriggersDisposal(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	disposals := &atomic.Int32{}
	owner := handle.NewOwningOwner(
		func() *doubled { return &doubled{plain{value: 5, disposals: disposals}} },
		handle.WithTracker(tracker),
	)
	shared := owner.Share()

	owner.Release()
	assert.Equal(t, int32(0), disposals.Load())
	assert.False(t, shared.Alive())
	assert.Equal(t, 10, shared.Get().Value())

	shared.Release()
	assert.Equal(t, int32(1), disposals.Load())

	owner.Release()
	shared.Release()
	assert.Equal(t, int32(1), disposals.Load())
}

func TestNonOwningNeverDisposes(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	disposals := &atomic.Int32{}
	pointee := &plain{value: 7, disposals: disposals}

	owner := handle.MakeOwner(pointee, handle.WithTracker(tracker))
	shared := owner.Share()
	reg := owner.Register()

	assert.Equal(t, handle.PolicyNonOwning, reg.Policy())
	assert.Same(t, pointee, shared.Get())

	owner.Release()
	shared.Release()

	assert.True(t, reg.Destroyed())
	assert.Equal(t, int32(0), disposals.Load())
	assert.Equal(t, 7, pointee.Value())
	assert.Equal(t, 0, tracker.Live())
}

func TestMakeOwningOwnerCopiesValue(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	value := plain{value: 9}
	owner := handle.MakeOwningOwner(value, handle.WithTracker(tracker))
	defer owner.Release()

	owner.Get().value = 10

	assert.Equal(t, 9, value.value)
	assert.Equal(t, 10, owner.Get().Value())
	assert.Equal(t, handle.PolicyOwning, owner.Register().Policy())
}

func TestTakeTransfersWithoutCounting(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	owner := handle.MakeOwner(&plain{value: 1}, handle.WithTracker(tracker))
	shared := owner.Share()

	moved := owner.Take()

	assert.True(t, owner.IsNil())
	assert.Equal(t, 0, owner.UseCount())
	assert.Equal(t, 2, moved.UseCount())
	assert.True(t, moved.Equal(shared))
	assert.True(t, shared.Alive())

	// releasing the moved-from owner must not affect the register
	owner.Release()
	assert.True(t, shared.Alive())
	assert.Equal(t, 2, shared.UseCount())

	moved.Release()
	assert.False(t, shared.Alive())
	assert.Equal(t, 1, shared.UseCount())

	shared.Release()
	assert.Equal(t, 0, tracker.Live())
}

func TestAdoptReleasesPreviousOwnership(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	firstDisposals := &atomic.Int32{}
	secondDisposals := &atomic.Int32{}

	first := handle.AdoptOwningOwner(&plain{value: 1, disposals: firstDisposals}, handle.WithTracker(tracker))
	firstShared := first.Share()
	second := handle.AdoptOwningOwner(&plain{value: 2, disposals: secondDisposals}, handle.WithTracker(tracker))

	first.Adopt(second)

	assert.True(t, second.IsNil())
	assert.Equal(t, 2, first.Get().Value())
	assert.Equal(t, 1, first.UseCount())
	assert.False(t, firstShared.Alive())
	assert.Equal(t, int32(0), firstDisposals.Load())

	first.Adopt(first)
	assert.Equal(t, 2, first.Get().Value())

	firstShared.Release()
	assert.Equal(t, int32(1), firstDisposals.Load())

	first.Release()
	assert.Equal(t, int32(1), secondDisposals.Load())
	assert.Equal(t, 0, tracker.Live())
}

func TestAssign(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	leftOwner := handle.MakeOwner(&plain{value: 1}, handle.WithTracker(tracker))
	rightOwner := handle.MakeOwner(&plain{value: 2}, handle.WithTracker(tracker))

	shared := &handle.Shared[*plain]{}

	shared.Assign(leftOwner)
	assert.Equal(t, 2, leftOwner.UseCount())
	assert.True(t, shared.Equal(leftOwner))

	shared.Assign(leftOwner)
	assert.Equal(t, 2, leftOwner.UseCount(), "same-register assignment must not change the count")

	shared.Assign(shared)
	assert.Equal(t, 2, leftOwner.UseCount())

	shared.Assign(rightOwner)
	assert.Equal(t, 1, leftOwner.UseCount())
	assert.Equal(t, 2, rightOwner.UseCount())
	assert.Equal(t, 2, shared.Get().Value())

	shared.Assign(&handle.Shared[*plain]{})
	assert.True(t, shared.IsNil())
	assert.Equal(t, 1, rightOwner.UseCount())

	shared.Assign(rightOwner)
	shared.Reset()
	assert.True(t, shared.IsNil())
	assert.Equal(t, 1, rightOwner.UseCount())

	leftOwner.Release()
	rightOwner.Release()
	assert.Equal(t, 0, tracker.Live())
}

func TestOwnerResetClearsAlive(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	owner := handle.MakeOwner(&plain{}, handle.WithTracker(tracker))
	shared := owner.Share()

	owner.Reset()

	assert.True(t, owner.IsNil())
	assert.False(t, shared.Alive())
	assert.Equal(t, 1, shared.UseCount())

	shared.Reset()
	assert.Equal(t, 0, tracker.Live())
}

func TestNilPointee(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	owner := handle.AdoptOwningOwner[*plain](nil, handle.WithTracker(tracker))
	require.NotNil(t, owner.Register())

	assert.True(t, owner.IsNil())
	assert.True(t, owner.Alive())
	assert.Equal(t, 1, owner.UseCount())

	assert.NotPanics(t, owner.Release)
	assert.Equal(t, 0, tracker.Live())
}

func TestEqualityIsRegisterIdentity(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(t)

	pointee := &plain{value: 1}

	first := handle.MakeOwner(pointee, handle.WithTracker(tracker))
	second := handle.MakeOwner(pointee, handle.WithTracker(tracker))

	defer first.Release()
	defer second.Release()

	assert.Same(t, first.Get(), second.Get())
	assert.False(t, first.Equal(second))

	firstShared := first.Share()
	defer firstShared.Release()

	assert.True(t, handle.Equal(first, firstShared))
	assert.False(t, handle.Equal(second, firstShared))
}
