/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package version

import (
	"strings"
	"testing"
)

func TestStringCarriesPrefix(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "v") {
		t.Fatalf("expected v-prefixed version, got %q", s)
	}
	if !strings.Contains(s, Version) {
		t.Fatalf("String() %q does not contain Version %q", s, Version)
	}
}
