/*
 * Ledger Go SDK
 *
 * Copyright 2019 Dapper Labs, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ledger

import "errors"

// Sentinel error kinds. Constructors and parsers wrap these with
// github.com/pkg/errors.Wrap so callers can both match with errors.Is
// and read a human-readable cause.
var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidAsset     = errors.New("invalid asset payload")
	ErrInvalidOwnerSpec = errors.New("invalid owner spec")
	ErrAmountError      = errors.New("amount out of bounds")
	ErrParseError       = errors.New("parse error")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrKeypairMismatch  = errors.New("keypair mismatch")
	ErrAssetIDMismatch  = errors.New("asset id mismatch")
	ErrInvalidHash      = errors.New("invalid hash")
)
