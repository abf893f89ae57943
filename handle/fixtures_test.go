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
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/kubewharf/lifeptr/handle"
	"github.com/kubewharf/lifeptr/handle/observer"
	"github.com/kubewharf/lifeptr/util/optional"
)

type valuer interface {
	Value() int
}

type plain struct {
	value     int
	disposals *atomic.Int32
}

func (p *plain) Value() int { return p.value }

func (p *plain) Dispose() {
	if p.disposals != nil {
		p.disposals.Add(1)
	}
}

type doubled struct {
	plain
}

func (d *doubled) Value() int { return d.value * 2 }

type unrelated struct{}

func newTestTracker(t *testing.T) (*handle.Tracker, *clocktesting.FakeClock) {
	t.Helper()

	return newObservedTracker(t, optional.None[observer.Observer]())
}

func newObservedTracker(
	t *testing.T,
	obs optional.Optional[observer.Observer],
) (*handle.Tracker, *clocktesting.FakeClock) {
	t.Helper()

	ctx, cancelFunc := context.WithCancel(context.Background())
	t.Cleanup(cancelFunc)

	clk := clocktesting.NewFakeClock(time.Unix(0, 0))

	tracker := handle.NewTracker(ctx, handle.TrackerOptions{
		Name:     t.Name(),
		Observer: obs,
		Clock:    clk,
	})

	return tracker, clk
}

func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered, "expected panic")

		var isErr bool
		err, isErr = recovered.(error)
		require.True(t, isErr, "expected panic with error, got %#v", recovered)
	}()

	fn()

	return nil
}
