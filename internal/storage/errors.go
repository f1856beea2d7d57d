/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the engine. Callers match them with errors.Is; the
// underlying driver error stays reachable through the chain.
var (
	// ErrStorageUnavailable is returned by Open when the environment cannot
	// provide the journal database at all (directory not creatable, file not
	// openable, schema not ensurable). Every later operation will keep
	// failing until the condition is resolved.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWriteFailed tags a rejected insert, update or delete. The enclosing
	// transaction has been rolled back; nothing became visible.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadFailed tags a lookup or scan fault. "Not found" is never an
	// error; reads report absence as a nil/empty/zero result instead.
	ErrReadFailed = errors.New("read failed")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorageUnavailable, err))
}

func writeFailed(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrWriteFailed, err))
}

func readFailed(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrReadFailed, err))
}
