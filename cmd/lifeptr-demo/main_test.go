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

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOptions(t *testing.T, args ...string) *options {
	t.Helper()

	opts := &options{}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.addFlags(fs)
	require.NoError(t, fs.Parse(args))

	return opts
}

func TestFlagDefaults(t *testing.T) {
	t.Parallel()

	opts := parseOptions(t)
	assert.Equal(t, 20, opts.value)
	assert.Equal(t, 4, opts.readers)
	assert.Equal(t, int32(2), opts.logObserverLevel)
	assert.False(t, opts.dumpMetrics)
	assert.Equal(t, time.Second, opts.sampleFrequency)
}

func TestRunReportsLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	opts := parseOptions(t, "--value=20", "--readers=3", "--metrics-sample-frequency=1h")

	out := &bytes.Buffer{}
	require.NoError(t, run(ctx, opts, out))

	assert.Equal(t, ""+
		"moved: first owner empty=true, shared alive=true uses=2 value=40\n"+
		"readers: reads=3\n"+
		"self: equal=true uses=3\n"+
		"owner released: shared alive=false uses=1 value=40 disposed=false\n"+
		"upcast: value=40 alive=false uses=2\n"+
		"upcast released: uses=1 disposed=false\n"+
		"shared released: disposed=true live=0 peak=1\n",
		out.String(),
	)
}

func TestRunDumpsMetrics(t *testing.T) {
	t.Parallel()

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	opts := parseOptions(t, "--readers=1", "--dump-metrics", "--metrics-sample-frequency=1h")

	out := &bytes.Buffer{}
	require.NoError(t, run(ctx, opts, out))

	assert.Contains(t, out.String(), `lifeptr_owner_created{label="calibrated",policy="Owning",tracker="demo"} 1`)
	assert.Contains(t, out.String(), `lifeptr_register_destroyed{disposed_pointee="true",label="calibrated",policy="Owning",tracker="demo"} 1`)
	assert.Contains(t, out.String(), "# TYPE lifeptr_lock_wait histogram")
}
