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

package refcount_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubewharf/lifeptr/internal/refcount"
)

func TestAcquireRelease(t *testing.T) {
	t.Parallel()

	counter := &refcount.Counter{}
	assert.Equal(t, 0, counter.Load())

	require.True(t, counter.Acquire())
	require.True(t, counter.Acquire())
	assert.Equal(t, 2, counter.Load())

	assert.False(t, counter.Release())
	assert.True(t, counter.Release())
	assert.Equal(t, 0, counter.Load())
}

func TestFuseDeniesAcquire(t *testing.T) {
	t.Parallel()

	counter := &refcount.Counter{}
	require.True(t, counter.Acquire())
	require.True(t, counter.Release())

	require.True(t, counter.Fuse())
	assert.True(t, counter.Fused())
	assert.False(t, counter.Acquire())
	assert.False(t, counter.Acquire())
	assert.Equal(t, 0, counter.Load())
	assert.True(t, counter.Fused())
}

func TestFuseFailsWhenReacquired(t *testing.T) {
	t.Parallel()

	counter := &refcount.Counter{}
	require.True(t, counter.Acquire())
	require.True(t, counter.Release())
	require.True(t, counter.Acquire())

	assert.False(t, counter.Fuse())
	assert.False(t, counter.Fused())
	assert.Equal(t, 1, counter.Load())
}

func TestDoubleReleasePanics(t *testing.T) {
	t.Parallel()

	counter := &refcount.Counter{}
	require.True(t, counter.Acquire())
	require.True(t, counter.Release())

	assert.PanicsWithValue(t, "double release detected", func() { counter.Release() })
}

func TestConcurrentAcquireRelease(t *testing.T) {
	t.Parallel()

	counter := &refcount.Counter{}
	require.True(t, counter.Acquire())

	var wg sync.WaitGroup

	for range 64 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 1000 {
				if counter.Acquire() {
					counter.Release()
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, counter.Load())
	assert.True(t, counter.Release())
}
