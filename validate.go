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

import (
	"time"

	"github.com/pkg/errors"
)

// InputsValid reports whether every input of tx is validly fulfilled,
// using the current wall-clock time for any time-bounded condition
// leaves. See InputsValidAt for explicit time control (spec.md §4.8).
func InputsValid(tx *Transaction, referencedOutputs []*Output) (bool, error) {
	return InputsValidAt(tx, referencedOutputs, time.Now())
}

// InputsValidAt is InputsValid with an explicit "now", threaded
// through to Node.Verify for time-bounded leaf kinds (spec.md §5, §8
// "no timeouts ... other than the now value").
//
// CREATE/GENESIS transactions ignore referencedOutputs entirely: each
// input is checked against a wildcard condition that matches by
// construction. TRANSFER transactions require len(referencedOutputs)
// == len(tx.Inputs); any other operation value raises
// ErrInvalidOperation. Structural or parsing failures on a per-input
// basis report false rather than raising — only caller misuse raises.
func InputsValidAt(tx *Transaction, referencedOutputs []*Output, now time.Time) (bool, error) {
	switch tx.Operation {
	case OperationCreate, OperationGenesis:
		for i := range tx.Inputs {
			ok, err := validateInput(tx, i, nil, now)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case OperationTransfer:
		if len(referencedOutputs) != len(tx.Inputs) {
			return false, errors.Wrapf(ErrInvalidOperation, "need %d referenced outputs for %d inputs, got %d", len(tx.Inputs), len(tx.Inputs), len(referencedOutputs))
		}
		for i := range tx.Inputs {
			if referencedOutputs[i] == nil {
				return false, errors.Wrapf(ErrInvalidOperation, "missing referenced output for input %d", i)
			}
			ok, err := validateInput(tx, i, referencedOutputs[i], now)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, errors.Wrapf(ErrInvalidOperation, "unknown operation %q", tx.Operation)
	}
}

// validateInput implements the per-input steps of spec.md §4.8:
// rebuild T_i and its message, require the fulfillment to already be
// fully fulfilled (the "parse the fulfillment URI" step — our Input
// always holds a parsed Node, so an unfulfilled tree is the
// unparseable case), check the condition URI agreement for TRANSFER,
// and verify signatures against the message.
func validateInput(tx *Transaction, i int, referencedOutput *Output, now time.Time) (bool, error) {
	in := tx.Inputs[i]

	if referencedOutput != nil {
		if in.Fulfillment.ConditionURI() != referencedOutput.Condition.ConditionURI() {
			return false, nil
		}
	}

	if !in.Fulfillment.isFulfilled() {
		return false, nil
	}

	msg, err := partialMessage(tx, i)
	if err != nil {
		return false, err
	}

	return in.Fulfillment.Verify(msg, now), nil
}
