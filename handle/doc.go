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

// Package handle implements reference-counted handles that track whether a designated owner is still alive,
// independently of when the pointee itself is disposed.
//
// Every ownership chain starts from exactly one owner handle created by one of the Make functions.
// The owner shares out any number of shared handles, all bound to the same Register.
// Releasing the owner clears the alive flag seen by every shared handle,
// while the pointee stays valid until the last handle of the chain is released.
//
// Handles are always used through pointers.
// Copying a *Shared pointer aliases the same handle instance and does not add a reference;
// call Share to obtain an independent reference that must be released separately.
package handle
