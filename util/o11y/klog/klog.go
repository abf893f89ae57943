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

package o11yklog

import (
	"flag"
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/kubewharf/lifeptr/util/errors"
)

// Registers klog flags on fs, using dashes instead of underscores in flag names.
func InitFlags(fs *flag.FlagSet) {
	klog.InitFlags(fs)

	fs.VisitAll(func(f *flag.Flag) {
		f.Name = strings.ReplaceAll(f.Name, "_", "-")
	})
}

// Key-value pairs listing the tags of err, for use with structured logging.
func ErrTagKvs(err error) []any {
	errTags := []any{}

	for i, tag := range errors.GetTags(err) {
		errTags = append(errTags, fmt.Sprintf("errorTag%d", i), tag)
	}

	return errTags
}
