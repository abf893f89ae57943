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

// Walks a calibrated sensor through the handle lifecycle and reports what each handle observes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/kubewharf/lifeptr/handle"
	"github.com/kubewharf/lifeptr/handle/observer"
	"github.com/kubewharf/lifeptr/util/errors"
	o11yklog "github.com/kubewharf/lifeptr/util/o11y/klog"
	"github.com/kubewharf/lifeptr/util/optional"
)

type options struct {
	value            int
	readers          int
	logObserverLevel int32
	dumpMetrics      bool
	sampleFrequency  time.Duration
}

func (opts *options) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&opts.value, "value", 20, "raw reading of the demo sensor")
	fs.IntVar(&opts.readers, "readers", 4, "number of goroutines reading the sensor concurrently")
	fs.Int32Var(
		&opts.logObserverLevel,
		"log-observer-level",
		2,
		"klog verbosity of ownership events; lock events are logged two levels higher",
	)
	fs.BoolVar(&opts.dumpMetrics, "dump-metrics", false, "print the collected metrics before exiting")
	fs.DurationVar(
		&opts.sampleFrequency,
		"metrics-sample-frequency",
		time.Second,
		"frequency of sampling the live register gauge",
	)
}

func main() {
	opts := &options{}

	opts.addFlags(pflag.CommandLine)

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	o11yklog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)

	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		panic(errors.TagWrapf("ParseArgs", err, "parse args"))
	}

	defer klog.Flush()

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	ctx = klog.NewContext(ctx, klog.Background())

	if err := run(ctx, opts, os.Stdout); err != nil {
		panic(err)
	}
}

type reading interface {
	Value() int
}

type sensor struct {
	handle.SelfRef

	raw   int
	reads int
}

func (s *sensor) Value() int { return s.raw }

type calibrated struct {
	sensor

	disposed *atomic.Bool
}

func (c *calibrated) Value() int { return c.raw * 2 }

func (c *calibrated) Dispose() { c.disposed.Store(true) }

func run(ctx context.Context, opts *options, out io.Writer) error {
	registry := prometheus.NewRegistry()

	obs := observer.NewKlog(klog.Level(opts.logObserverLevel)).
		Join(observer.NewMetrics(registry, opts.sampleFrequency))

	tracker := handle.NewTracker(ctx, handle.TrackerOptions{
		Name:     "demo",
		Observer: optional.Some(obs),
		Clock:    nil,
	})

	disposed := new(atomic.Bool)

	owner := handle.AdoptOwningOwner(
		&calibrated{sensor: sensor{raw: opts.value}, disposed: disposed},
		handle.WithTracker(tracker),
		handle.WithLabel("calibrated"),
	)

	shared := &handle.OwningShared[*calibrated]{}
	defer shared.Release()

	moved := owner.Take()
	shared.Assign(moved)

	fmt.Fprintf(out, "moved: first owner empty=%t, shared alive=%t uses=%d value=%d\n",
		owner.IsNil(), shared.Alive(), shared.UseCount(), shared.Get().Value())

	if err := readConcurrently(ctx, shared, opts.readers); err != nil {
		return err
	}

	shared.WithLock(func(value *calibrated, _ bool) {
		fmt.Fprintf(out, "readers: reads=%d\n", value.reads)
	})

	self, err := handle.OwningSharedFromThis[*calibrated](&shared.Get().SelfRef)
	if err != nil {
		return errors.TagWrapf("SharedFromThis", err, "share sensor from itself")
	}

	fmt.Fprintf(out, "self: equal=%t uses=%d\n", self.Equal(shared), self.UseCount())
	self.Release()

	moved.Release()

	fmt.Fprintf(out, "owner released: shared alive=%t uses=%d value=%d disposed=%t\n",
		shared.Alive(), shared.UseCount(), shared.Get().Value(), disposed.Load())

	upcast := handle.CastOwning[reading, *calibrated](shared)

	guard := upcast.Lock()
	fmt.Fprintf(out, "upcast: value=%d alive=%t uses=%d\n", guard.Get().Value(), guard.Alive(), upcast.UseCount())
	guard.Unlock()

	upcast.Release()

	fmt.Fprintf(out, "upcast released: uses=%d disposed=%t\n", shared.UseCount(), disposed.Load())

	shared.Release()

	fmt.Fprintf(out, "shared released: disposed=%t live=%d peak=%d\n", disposed.Load(), tracker.Live(), tracker.Peak())

	if opts.dumpMetrics {
		if err := dumpMetrics(registry, out); err != nil {
			return err
		}
	}

	return nil
}

func readConcurrently(ctx context.Context, shared *handle.OwningShared[*calibrated], readers int) error {
	group, ctx := errgroup.WithContext(ctx)

	for readerIndex := range readers {
		reader := shared.Share()

		group.Go(func() error {
			defer reader.Release()

			if err := ctx.Err(); err != nil {
				return errors.TagWrapf("Canceled", err, "reader %d", readerIndex)
			}

			reader.WithLock(func(value *calibrated, alive bool) {
				value.reads++

				klog.FromContext(ctx).V(4).Info("read sensor", "reader", readerIndex, "value", value.Value(), "alive", alive)
			})

			return nil
		})
	}

	return errors.WithStack(group.Wait())
}

func dumpMetrics(registry *prometheus.Registry, out io.Writer) error {
	families, err := registry.Gather()
	if err != nil {
		return errors.TagWrapf("Gather", err, "gather metrics")
	}

	encoder := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return errors.TagWrapf("Encode", err, "encode metric family %s", family.GetName())
		}
	}

	return nil
}
