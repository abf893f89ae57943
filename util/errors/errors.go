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

// Error construction helpers.
//
// Messages created here carry a stack trace from github.com/pkg/errors,
// and wrap with `%w` semantics so that Is and As see through them.
package errors

import (
	goerrors "errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Returns an error with the message and a stack trace.
func New(message string) error {
	return pkgerrors.New(message)
}

// Formats an error like fmt.Errorf, supporting `%w`.
func Errorf(format string, args ...any) error {
	return pkgerrors.WithStack(fmt.Errorf(format, args...))
}

// Annotates err with a formatted message and a stack trace. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// Annotates err with a stack trace. Returns nil if err is nil.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

func Is(err, target error) bool { return goerrors.Is(err, target) }

func As(err error, target any) bool { return goerrors.As(err, target) }

func Join(errs ...error) error { return goerrors.Join(errs...) }
