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

import "github.com/pkg/errors"

// Operation identifies the kind of Transaction (spec.md §3).
type Operation string

const (
	OperationCreate   Operation = "CREATE"
	OperationTransfer Operation = "TRANSFER"
	OperationGenesis  Operation = "GENESIS"
)

// Input spends an Output by presenting a fulfillment. CREATE/GENESIS
// inputs carry no link; TRANSFER inputs must name the Output they
// fulfill (spec.md §3).
type Input struct {
	OwnersBefore []PublicKey
	Fulfillment  *Node // condition tree; its leaves carry signatures once signed
	Fulfills     TransactionLink
}

// NewInput validates the invariants of spec.md §3 for the given
// operation and returns an Input.
func NewInput(op Operation, ownersBefore []PublicKey, fulfillment *Node, fulfills TransactionLink) (*Input, error) {
	if len(ownersBefore) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "owners_before must not be empty")
	}
	if fulfillment == nil {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "fulfillment must not be nil")
	}
	switch op {
	case OperationCreate, OperationGenesis:
		if !fulfills.IsEmpty() {
			return nil, errors.Wrap(ErrInvalidOperation, "CREATE/GENESIS inputs must not name a fulfills link")
		}
	case OperationTransfer:
		if fulfills.IsEmpty() {
			return nil, errors.Wrap(ErrInvalidOperation, "TRANSFER inputs must name a fulfills link")
		}
	default:
		return nil, errors.Wrapf(ErrInvalidOperation, "unknown operation %q", op)
	}
	owners := append([]PublicKey(nil), ownersBefore...)
	return &Input{OwnersBefore: owners, Fulfillment: fulfillment.Clone(), Fulfills: fulfills}, nil
}

// GenerateInput produces an unsigned Input whose fulfillment is the
// condition shape implied by Output.generate(publicKeys, *) — the
// amount is irrelevant, only the shape matters (spec.md §4.4).
func GenerateInput(publicKeys []PublicKey) (*Input, error) {
	out, err := GenerateOutput(publicKeys, MinAmount)
	if err != nil {
		return nil, err
	}
	return &Input{
		OwnersBefore: append([]PublicKey(nil), publicKeys...),
		Fulfillment:  out.Condition.Clone(),
		Fulfills:     EmptyTransactionLink,
	}, nil
}

// Clone returns a deep, independent copy of the input.
func (in *Input) Clone() *Input {
	return &Input{
		OwnersBefore: append([]PublicKey(nil), in.OwnersBefore...),
		Fulfillment:  in.Fulfillment.Clone(),
		Fulfills:     in.Fulfills,
	}
}

// ToMap renders the input in its canonical JSON shape. signed controls
// whether fulfillment is rendered as its URI (signed wire form) or its
// detail map (unsigned, in-memory form) — spec.md §3.
func (in *Input) ToMap(signed bool) (map[string]any, error) {
	var fulfillment any
	if signed {
		uri, err := in.Fulfillment.FulfillmentURI()
		if err != nil {
			return nil, err
		}
		fulfillment = uri
	} else {
		fulfillment = in.Fulfillment.ToDetailMap()
	}
	owners := make([]any, len(in.OwnersBefore))
	for i, pk := range in.OwnersBefore {
		owners[i] = string(pk)
	}
	return map[string]any{
		"owners_before": owners,
		"fulfillment":   fulfillment,
		"fulfills":      in.Fulfills.ToMap(),
	}, nil
}

// InputFromMap parses an Input from its canonical JSON shape. The
// fulfillment field may be either a URI string (signed form) or a
// detail map (unsigned form).
func InputFromMap(m map[string]any) (*Input, error) {
	rawOwners, ok := m["owners_before"].([]any)
	if !ok || len(rawOwners) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "owners_before must be a non-empty list")
	}
	owners := make([]PublicKey, len(rawOwners))
	for i, o := range rawOwners {
		s, ok := o.(string)
		if !ok {
			return nil, errParseWrap("owners_before entries must be strings")
		}
		owners[i] = s
	}

	var fulfillment *Node
	switch f := m["fulfillment"].(type) {
	case string:
		n, err := ParseFulfillmentURI(f)
		if err != nil {
			return nil, err
		}
		fulfillment = n
	case map[string]any:
		n, err := FromDetailMap(f)
		if err != nil {
			return nil, err
		}
		fulfillment = n
	default:
		return nil, errParseWrap("fulfillment must be a uri string or a detail map")
	}

	fulfillsMap, _ := m["fulfills"].(map[string]any)
	link, err := TransactionLinkFromMap(fulfillsMap)
	if err != nil {
		return nil, err
	}

	return &Input{OwnersBefore: owners, Fulfillment: fulfillment, Fulfills: link}, nil
}
