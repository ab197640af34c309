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

import "fmt"

// TransactionLink is a unidirectional reference to a previously
// produced Output: (txid, output_index). The zero value is the empty
// link (spec.md §3).
type TransactionLink struct {
	TxID        string
	OutputIndex uint
	present     bool
}

// NewTransactionLink builds a present link to the given output.
func NewTransactionLink(txID string, outputIndex uint) TransactionLink {
	return TransactionLink{TxID: txID, OutputIndex: outputIndex, present: true}
}

// EmptyTransactionLink is the null link used by CREATE/GENESIS inputs.
var EmptyTransactionLink = TransactionLink{}

// IsEmpty reports whether the link is the null link.
func (l TransactionLink) IsEmpty() bool {
	return !l.present
}

// ToMap renders the link as its JSON form: nil for the empty link,
// otherwise {"txid": ..., "output": ...}.
func (l TransactionLink) ToMap() map[string]any {
	if l.IsEmpty() {
		return nil
	}
	return map[string]any{
		"txid":   l.TxID,
		"output": l.OutputIndex,
	}
}

// TransactionLinkFromMap parses a link from its JSON form; nil or a
// missing map yields the empty link.
func TransactionLinkFromMap(m map[string]any) (TransactionLink, error) {
	if m == nil {
		return EmptyTransactionLink, nil
	}
	txid, ok := m["txid"].(string)
	if !ok {
		return TransactionLink{}, errParseWrap("fulfills.txid must be a string")
	}
	idx, err := toUint(m["output"])
	if err != nil {
		return TransactionLink{}, errParseWrap("fulfills.output must be a non-negative integer")
	}
	return NewTransactionLink(txid, idx), nil
}

// ToURI renders "{prefix}/transactions/{txid}/outputs/{index}", or
// empty string for the empty link.
func (l TransactionLink) ToURI(prefix string) string {
	if l.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%s/transactions/%s/outputs/%d", prefix, l.TxID, l.OutputIndex)
}
