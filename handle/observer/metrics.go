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

package observer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kubewharf/lifeptr/util/errors"
	"github.com/kubewharf/lifeptr/util/o11y/metrics"
)

// An observer that exports prometheus metrics to registry.
//
// The live register gauge is sampled every sampleFrequency.
func NewMetrics(registry prometheus.Registerer, sampleFrequency time.Duration) Observer {
	type ownerTags struct {
		Tracker string
		Label   string
		Policy  string
	}

	type destroyTags struct {
		Tracker         string
		Label           string
		Policy          string
		DisposedPointee bool
	}

	type lockTags struct {
		Tracker string
		Label   string
	}

	type castTags struct {
		Tracker string
		Label   string
		To      string
		Error   string
	}

	type trackerTags struct {
		Tracker string
	}

	ownerCreatedHandle := metrics.Register(
		registry,
		"lifeptr_owner_created",
		"Number of owner handles created.",
		metrics.IntCounter(),
		metrics.NewReflectTags[ownerTags](),
	)

	ownerTransferredHandle := metrics.Register(
		registry,
		"lifeptr_owner_transferred",
		"Number of times ownership was moved to another owner handle.",
		metrics.IntCounter(),
		metrics.NewReflectTags[ownerTags](),
	)

	ownerReleasedHandle := metrics.Register(
		registry,
		"lifeptr_owner_released",
		"Number of owner handles released.",
		metrics.IntCounter(),
		metrics.NewReflectTags[ownerTags](),
	)

	destroyedHandle := metrics.Register(
		registry,
		"lifeptr_register_destroyed",
		"Number of registers destroyed after their share count reached zero.",
		metrics.IntCounter(),
		metrics.NewReflectTags[destroyTags](),
	)

	lifetimeHandle := metrics.Register(
		registry,
		"lifeptr_register_lifetime",
		"Duration between register creation and destruction.",
		metrics.AsyncLatencyDurationHistogram(),
		metrics.NewReflectTags[destroyTags](),
	)

	lockWaitHandle := metrics.Register(
		registry,
		"lifeptr_lock_wait",
		"Duration spent waiting for a register mutex.",
		metrics.FunctionDurationHistogram(),
		metrics.NewReflectTags[lockTags](),
	)

	lockHoldHandle := metrics.Register(
		registry,
		"lifeptr_lock_hold",
		"Duration a register mutex was held by a guard.",
		metrics.FunctionDurationHistogram(),
		metrics.NewReflectTags[lockTags](),
	)

	castFailedHandle := metrics.Register(
		registry,
		"lifeptr_cast_failed",
		"Number of failed handle casts.",
		metrics.IntCounter(),
		metrics.NewReflectTags[castTags](),
	)

	liveRegistersHandle := metrics.Register(
		registry,
		"lifeptr_live_registers",
		"Number of registers that have not been destroyed.",
		metrics.IntGauge(),
		metrics.NewReflectTags[trackerTags](),
	)

	return Observer{
		OwnerCreated: func(_ context.Context, arg OwnerCreated) {
			ownerCreatedHandle.Emit(1, ownerTags{Tracker: arg.Tracker, Label: arg.Label, Policy: arg.Policy})
		},
		OwnerTransferred: func(_ context.Context, arg OwnerTransferred) {
			ownerTransferredHandle.Emit(1, ownerTags{Tracker: arg.Tracker, Label: arg.Label, Policy: arg.Policy})
		},
		OwnerReleased: func(_ context.Context, arg OwnerReleased) {
			ownerReleasedHandle.Emit(1, ownerTags{Tracker: arg.Tracker, Label: arg.Label, Policy: arg.Policy})
		},
		RegisterDestroyed: func(_ context.Context, arg RegisterDestroyed) {
			tags := destroyTags{
				Tracker:         arg.Tracker,
				Label:           arg.Label,
				Policy:          arg.Policy,
				DisposedPointee: arg.DisposedPointee,
			}

			destroyedHandle.Emit(1, tags)
			lifetimeHandle.Emit(arg.Lifetime, tags)
		},
		Locked: func(_ context.Context, arg Locked) {
			lockWaitHandle.Emit(arg.Wait, lockTags{Tracker: arg.Tracker, Label: arg.Label})
		},
		Unlocked: func(_ context.Context, arg Unlocked) {
			lockHoldHandle.Emit(arg.Held, lockTags{Tracker: arg.Tracker, Label: arg.Label})
		},
		CastFailed: func(_ context.Context, arg CastFailed) {
			castFailedHandle.Emit(1, castTags{
				Tracker: arg.Tracker,
				Label:   arg.Label,
				To:      arg.To,
				Error:   errors.SerializeTags(arg.Err),
			})
		},
		LiveRegisters: func(ctx context.Context, arg LiveRegisters, getter func() int) {
			metrics.Repeating(ctx, sampleFrequency, liveRegistersHandle.With(trackerTags{Tracker: arg.Tracker}), getter)
		},
	}
}
