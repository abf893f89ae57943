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
	"github.com/kubewharf/lifeptr/util/errors"
)

var (
	// The handle is not bound to any register.
	ErrEmptyHandle = errors.TagErrorf("EmptyHandle", "handle is empty")
	// The register has been destroyed because its share count reached zero.
	ErrExpired = errors.TagErrorf("Expired", "register has been destroyed")
	// The self-reference was never installed by an owner.
	ErrNoOwner = errors.TagErrorf("NoOwner", "no owner has been installed for this self-reference")
	// An owning handle was requested from a non-owning register, or vice versa.
	ErrPolicyMismatch = errors.TagErrorf("PolicyMismatch", "register policy does not match the requested handle")
	// The pointee cannot be converted to the requested type.
	ErrBadCast = errors.TagErrorf("BadCast", "pointee does not implement the requested type")
)
