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
	"math/big"

	"github.com/pkg/errors"
)

const (
	// MinAmount is the smallest amount an Output may lock.
	MinAmount uint64 = 1
	// MaxAmount is the largest amount an Output may lock (9e18).
	MaxAmount uint64 = 9_000_000_000_000_000_000
)

// Output locks an amount under a condition; it optionally declares the
// owning public keys (absent only for hashlock outputs, spec.md §3).
type Output struct {
	Amount     uint64
	PublicKeys []PublicKey // nil only for KindPreimage conditions
	Condition  *Node
}

// NewOutput validates amount and public key shape and returns an Output.
func NewOutput(amount uint64, publicKeys []PublicKey, condition *Node) (*Output, error) {
	if amount < MinAmount || amount > MaxAmount {
		return nil, errors.Wrapf(ErrAmountError, "amount %d out of range [%d, %d]", amount, MinAmount, MaxAmount)
	}
	if condition == nil {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "condition must not be nil")
	}
	if condition.Kind == KindPreimage {
		if publicKeys != nil {
			return nil, errors.Wrap(ErrInvalidOwnerSpec, "hashlock outputs must not declare public_keys")
		}
	} else if len(publicKeys) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "non-hashlock outputs require a non-empty public_keys list")
	}
	pks := append([]PublicKey(nil), publicKeys...)
	return &Output{Amount: amount, PublicKeys: pks, Condition: condition}, nil
}

// OwnerSpec is the nested-list shape accepted by GenerateOutput: each
// leaf is either a public key or a pre-built condition Node.
type OwnerSpec struct {
	PublicKey PublicKey
	Condition *Node    // set instead of PublicKey to splice in a prebuilt subtree
	Sublist   []OwnerSpec
}

// PK builds a leaf owner-spec entry from a public key.
func PK(pk PublicKey) OwnerSpec { return OwnerSpec{PublicKey: pk} }

// Sub builds a nested owner-spec entry, generating its own N-of-N
// threshold subtree (spec.md §4.3).
func Sub(items ...OwnerSpec) OwnerSpec { return OwnerSpec{Sublist: items} }

// GenerateOutputCondition builds the condition node implied by
// ownerSpec, per the recursive N-of-N rule in spec.md §4.3:
//
//   - a flat list of N items is an N-of-N threshold over Ed25519
//     leaves (or nested thresholds for sublist items);
//   - a single bare item (N=1, not itself a sublist) collapses to a
//     bare Ed25519 leaf with no enclosing threshold;
//   - sublists of length <= 1 are rejected.
func GenerateOutputCondition(ownerSpec []OwnerSpec) (*Node, error) {
	if len(ownerSpec) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "owner spec must not be empty")
	}
	if len(ownerSpec) == 1 && ownerSpec[0].Sublist == nil {
		return leafFromOwnerSpec(ownerSpec[0])
	}
	subs := make([]*Node, len(ownerSpec))
	for i, item := range ownerSpec {
		n, err := generateSubtree(item)
		if err != nil {
			return nil, err
		}
		subs[i] = n
	}
	return NewThresholdCondition(len(subs), subs)
}

func generateSubtree(item OwnerSpec) (*Node, error) {
	if item.Sublist != nil {
		if len(item.Sublist) <= 1 {
			return nil, errors.Wrap(ErrInvalidOwnerSpec, "sublists must contain more than one item")
		}
		return GenerateOutputCondition(item.Sublist)
	}
	return leafFromOwnerSpec(item)
}

func leafFromOwnerSpec(item OwnerSpec) (*Node, error) {
	if item.Condition != nil {
		return item.Condition, nil
	}
	pk, err := DecodePublicKey(item.PublicKey)
	if err != nil {
		return nil, err
	}
	return NewEd25519Condition(pk), nil
}

// GenerateOutput builds a complete Output from a list of public keys,
// matching the flat-list shorthand of spec.md §4.3's Output.generate.
func GenerateOutput(publicKeys []PublicKey, amount uint64) (*Output, error) {
	spec := make([]OwnerSpec, len(publicKeys))
	for i, pk := range publicKeys {
		spec[i] = PK(pk)
	}
	cond, err := GenerateOutputCondition(spec)
	if err != nil {
		return nil, err
	}
	return NewOutput(amount, publicKeys, cond)
}

// ToMap renders the output in its canonical JSON shape. details is
// omitted only for hashlock conditions where the URI is the sole
// identifier (spec.md §4.3).
func (o *Output) ToMap() map[string]any {
	cond := map[string]any{"uri": o.Condition.ConditionURI()}
	if o.Condition.Kind != KindPreimage {
		cond["details"] = o.Condition.ToDetailMap()
	}
	var pks any
	if o.PublicKeys != nil {
		raw := make([]any, len(o.PublicKeys))
		for i, pk := range o.PublicKeys {
			raw[i] = string(pk)
		}
		pks = raw
	}
	return map[string]any{
		"amount":      big.NewInt(0).SetUint64(o.Amount).String(),
		"public_keys": pks,
		"condition":   cond,
	}
}

// OutputFromMap parses an Output from its canonical JSON shape,
// revalidating amount bounds and the condition/URI agreement.
func OutputFromMap(m map[string]any) (*Output, error) {
	amountStr, ok := m["amount"].(string)
	if !ok {
		return nil, errors.Wrap(ErrAmountError, "amount must be a decimal string")
	}
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok || !amount.IsUint64() {
		return nil, errors.Wrapf(ErrAmountError, "amount %q is not a valid uint64 decimal", amountStr)
	}

	condMap, ok := m["condition"].(map[string]any)
	if !ok {
		return nil, errors.Wrap(ErrParseError, "output missing condition")
	}
	uri, _ := condMap["uri"].(string)

	var cond *Node
	if details, ok := condMap["details"].(map[string]any); ok {
		var err error
		cond, err = FromDetailMap(details)
		if err != nil {
			return nil, err
		}
		if cond.ConditionURI() != uri {
			return nil, errors.Wrapf(ErrParseError, "condition uri %q does not match its details", uri)
		}
	} else {
		// Hashlock outputs carry only the URI; reconstruct a bare
		// preimage condition from it.
		hash, err := hashFromConditionURI(uri)
		if err != nil {
			return nil, err
		}
		cond = NewPreimageCondition(hash)
	}

	var pks []PublicKey
	if raw, ok := m["public_keys"].([]any); ok {
		pks = make([]PublicKey, len(raw))
		for i, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, errors.Wrap(ErrParseError, "public_keys entries must be strings")
			}
			pks[i] = s
		}
	}

	return NewOutput(amount.Uint64(), pks, cond)
}

func hashFromConditionURI(uri string) ([]byte, error) {
	const prefix = "cc:preimage:"
	if len(uri) <= len(prefix) || uri[:len(prefix)] != prefix {
		return nil, errors.Wrapf(ErrParseError, "not a preimage condition uri: %q", uri)
	}
	return decodeBase58(uri[len(prefix):])
}
