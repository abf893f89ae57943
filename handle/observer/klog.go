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

	"k8s.io/klog/v2"

	o11yklog "github.com/kubewharf/lifeptr/util/o11y/klog"
)

// An observer that writes structured logs through the klog logger in the context.
//
// Ownership events are logged at `verbosity`, lock events at `verbosity+2`.
// Failed casts are always logged as errors.
func NewKlog(verbosity klog.Level) Observer {
	logger := func(ctx context.Context) klog.Logger {
		return klog.FromContext(ctx).WithName(Observer{}.ComponentName())
	}

	return Observer{
		OwnerCreated: func(ctx context.Context, arg OwnerCreated) {
			logger(ctx).V(int(verbosity)).Info(
				"owner created",
				"tracker", arg.Tracker,
				"id", arg.ID,
				"label", arg.Label,
				"policy", arg.Policy,
			)
		},
		OwnerTransferred: func(ctx context.Context, arg OwnerTransferred) {
			logger(ctx).V(int(verbosity)).Info(
				"owner transferred",
				"tracker", arg.Tracker,
				"label", arg.Label,
				"policy", arg.Policy,
			)
		},
		OwnerReleased: func(ctx context.Context, arg OwnerReleased) {
			logger(ctx).V(int(verbosity)).Info(
				"owner released",
				"tracker", arg.Tracker,
				"label", arg.Label,
				"policy", arg.Policy,
				"useCount", arg.UseCount,
			)
		},
		RegisterDestroyed: func(ctx context.Context, arg RegisterDestroyed) {
			logger(ctx).V(int(verbosity)).Info(
				"register destroyed",
				"tracker", arg.Tracker,
				"label", arg.Label,
				"policy", arg.Policy,
				"lifetime", arg.Lifetime,
				"disposedPointee", arg.DisposedPointee,
			)
		},
		Locked: func(ctx context.Context, arg Locked) {
			logger(ctx).V(int(verbosity)+2).Info("locked", "tracker", arg.Tracker, "label", arg.Label, "wait", arg.Wait)
		},
		Unlocked: func(ctx context.Context, arg Unlocked) {
			logger(ctx).V(int(verbosity)+2).Info("unlocked", "tracker", arg.Tracker, "label", arg.Label, "held", arg.Held)
		},
		CastFailed: func(ctx context.Context, arg CastFailed) {
			logger(ctx).Error(
				arg.Err,
				"cast failed",
				append([]any{
					"tracker", arg.Tracker,
					"label", arg.Label,
					"from", arg.From,
					"to", arg.To,
				}, o11yklog.ErrTagKvs(arg.Err)...)...,
			)
		},
		LiveRegisters: nil,
	}
}
