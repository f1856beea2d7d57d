/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage is the persistence engine of the Daily Grace journal.
//
// It is the sole owner of the embedded SQLite database holding the three
// record collections (entries, images, quotes) and the only translator
// between the in-memory domain types and the persisted rows. All other
// components (the CLI, the verse provider, the exporters) go through the
// Engine API; none of them touch the database file directly.
//
// Integrity rules enforced here:
//   - every image row references a live entry; deleting an entry deletes its
//     images in the same transaction
//   - at most one cached quote per calendar date (upsert semantics)
//   - entry saves are all-or-nothing across the entry row and its image rows
//
// Absence is not an error: a missing entry is a nil result, missing images an
// empty slice, a missing quote an empty string. Only storage faults surface
// as errors, tagged with ErrStorageUnavailable, ErrWriteFailed or
// ErrReadFailed.
package storage
