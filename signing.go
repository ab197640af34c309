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
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
)

// KeyRing maps a base58 public key to the private key that controls it.
type KeyRing map[PublicKey]PrivateKey

// NewKeyRing builds a KeyRing from a flat list of private keys,
// deriving each one's public key (spec.md §4.7 step 1).
func NewKeyRing(keys ...PrivateKey) KeyRing {
	kr := make(KeyRing, len(keys))
	for _, sk := range keys {
		pub := sk.Public().(ed25519.PublicKey)
		kr[EncodePublicKey(pub)] = sk
	}
	return kr
}

// Sign performs the per-input partial-transaction signing ceremony of
// spec.md §4.7 in place: for every input I_i, it builds the partial
// transaction T_i (same operation/asset/version/metadata/outputs, only
// input I_i), canonically serializes its signature-stripped body to
// get m_i, and signs I_i's fulfillment against m_i using keys.
//
// Ed25519-leaf inputs are signed by the single owner in
// owners_before[0]. Threshold-root inputs are signed by finding every
// Ed25519 leaf matching each distinct public key in owners_before and
// signing each with the corresponding key. Signing fails with
// ErrKeypairMismatch rather than silently partial-signing (spec.md §9
// open question (b)).
func Sign(tx *Transaction, keys KeyRing) error {
	for i, in := range tx.Inputs {
		msg, err := partialMessage(tx, i)
		if err != nil {
			return errors.Wrapf(err, "building signing message for input %d", i)
		}
		signed := in.Clone()
		if err := signFulfillment(signed, keys, msg); err != nil {
			return errors.Wrapf(err, "signing input %d", i)
		}
		tx.Inputs[i] = signed
	}
	return nil
}

func signFulfillment(in *Input, keys KeyRing, msg []byte) error {
	switch in.Fulfillment.Kind {
	case KindEd25519:
		pk := in.OwnersBefore[0]
		sk, ok := keys[pk]
		if !ok {
			return errors.Wrapf(ErrKeypairMismatch, "no private key for %s", pk)
		}
		return in.Fulfillment.SignLeaf(sk, msg)

	case KindThreshold:
		seen := make(map[PublicKey]bool, len(in.OwnersBefore))
		for _, pk := range in.OwnersBefore {
			if seen[pk] {
				continue
			}
			seen[pk] = true

			rawPK, err := DecodePublicKey(pk)
			if err != nil {
				return err
			}
			leaves := in.Fulfillment.FindLeavesByPublicKey(rawPK)
			if len(leaves) == 0 {
				return errors.Wrapf(ErrKeypairMismatch, "no leaf under fulfillment for %s", pk)
			}
			sk, ok := keys[pk]
			if !ok {
				return errors.Wrapf(ErrKeypairMismatch, "no private key for %s", pk)
			}
			for _, leaf := range leaves {
				if err := leaf.SignLeaf(sk, msg); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return errors.Wrapf(ErrKeypairMismatch, "input fulfillment kind %v is not key-signable", in.Fulfillment.Kind)
	}
}

// partialMessage builds T_i for input index i and returns
// canonical_serialize(signature_stripped_body(T_i)) (spec.md §4.7
// step 2-3). It is shared by the signing engine and the validator,
// which must agree on exactly the same bytes.
func partialMessage(tx *Transaction, i int) ([]byte, error) {
	partial := &Transaction{
		Version:   tx.Version,
		Operation: tx.Operation,
		Asset:     tx.Asset,
		Metadata:  tx.Metadata,
		Outputs:   tx.Outputs,
		Inputs:    []*Input{tx.Inputs[i]},
	}
	m, err := partial.ToMap(false)
	if err != nil {
		return nil, err
	}
	return canonicalJSON(signatureStrippedBody(m))
}
