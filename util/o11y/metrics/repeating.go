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

package metrics

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Emits getter() to handle every `frequency` until ctx is canceled.
// Blocks until ctx is canceled.
func Repeating[V any](
	ctx context.Context,
	frequency time.Duration,
	handle TaggedHandle[V],
	getter func() V,
) {
	wait.UntilWithContext(ctx, func(_ context.Context) {
		handle.Emit(getter())
	}, frequency)
}
