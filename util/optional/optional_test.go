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

package optional_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubewharf/lifeptr/util/optional"
)

func TestGet(t *testing.T) {
	t.Parallel()

	value, isSome := optional.Some("foo").Get()
	assert.Equal(t, "foo", value)
	assert.True(t, isSome)

	value, isSome = optional.None[string]().Get()
	assert.Empty(t, value)
	assert.False(t, isSome)
}

func TestGetOrFn(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"foo",
		optional.Some("foo").GetOrFn(func() string { return unreachableDueTo[string](t, "Some") }),
	)
	assert.Equal(t, "bar", optional.None[string]().GetOrFn(func() string { return "bar" }))
	assert.Equal(t, "bar", optional.None[string]().GetOr("bar"))
}

func TestMustGetNone(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(
		t,
		"value must exist: should panic",
		func() { optional.None[int]().MustGet("should panic") },
	)
}

func TestMapAndFilter(t *testing.T) {
	t.Parallel()

	length := func(s string) int { return len(s) }

	assert.Equal(t, optional.Some(3), optional.Map(optional.Some("foo"), length))
	assert.Equal(t, optional.None[int](), optional.Map(optional.None[string](), length))

	nonEmpty := func(s string) bool { return s != "" }

	assert.True(t, optional.Filter(optional.Some("foo"), nonEmpty).IsSome())
	assert.True(t, optional.Filter(optional.Some(""), nonEmpty).IsNone())
}

func TestGoString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `Some("foo")`, optional.Some("foo").GoString())
	assert.Equal(t, "None[*int]()", optional.None[*int]().GoString())
}

func unreachableDueTo[T any](t *testing.T, variant string) T {
	t.Helper()
	t.Fatalf("function should not be called for %s", variant)

	panic("unreachable")
}
