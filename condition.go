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
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
)

// ConditionKind tags the variant of a condition tree Node.
type ConditionKind int

const (
	// KindEd25519 is a leaf condition satisfied by a single Ed25519 signature.
	KindEd25519 ConditionKind = iota
	// KindThreshold is satisfied when at least Threshold of Subconditions are satisfied.
	KindThreshold
	// KindPreimage is a hashlock leaf, satisfied by revealing a SHA-256 preimage.
	KindPreimage
)

func (k ConditionKind) String() string {
	switch k {
	case KindEd25519:
		return "ed25519-sha-256"
	case KindThreshold:
		return "threshold-sha-256"
	case KindPreimage:
		return "preimage-sha-256"
	default:
		return fmt.Sprintf("unknown-condition-kind(%d)", int(k))
	}
}

// Node is a single variant of the recursive condition/fulfillment tree
// (spec.md §3, §4.1). Exactly one of the per-kind field groups is
// meaningful, selected by Kind.
type Node struct {
	Kind ConditionKind

	// KindEd25519
	PublicKey ed25519.PublicKey
	Signature []byte // nil until SignLeaf is called

	// KindThreshold
	Threshold     int
	Subconditions []*Node

	// KindPreimage
	PreimageHash []byte // sha256(preimage); always set
	Preimage     []byte // nil until fulfilled
}

// NewEd25519Condition builds an unfulfilled Ed25519 leaf.
func NewEd25519Condition(pk ed25519.PublicKey) *Node {
	cp := make(ed25519.PublicKey, len(pk))
	copy(cp, pk)
	return &Node{Kind: KindEd25519, PublicKey: cp}
}

// NewThresholdCondition builds a threshold node over subs, requiring
// 1 <= k <= len(subs).
func NewThresholdCondition(k int, subs []*Node) (*Node, error) {
	if k < 1 || k > len(subs) {
		return nil, errors.Wrapf(ErrInvalidOwnerSpec, "threshold %d out of range for %d subconditions", k, len(subs))
	}
	cp := make([]*Node, len(subs))
	copy(cp, subs)
	return &Node{Kind: KindThreshold, Threshold: k, Subconditions: cp}, nil
}

// NewPreimageCondition builds a hashlock leaf over a preimage whose
// revealer has not yet been attached (public_keys is null for this
// variant per spec.md §3).
func NewPreimageCondition(preimageHash []byte) *Node {
	cp := make([]byte, len(preimageHash))
	copy(cp, preimageHash)
	return &Node{Kind: KindPreimage, PreimageHash: cp}
}

// Clone returns a deep, independent copy of node, preventing aliasing
// between callers and the signing engine (spec.md §5).
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Threshold: n.Threshold}
	if n.PublicKey != nil {
		out.PublicKey = append(ed25519.PublicKey(nil), n.PublicKey...)
	}
	if n.Signature != nil {
		out.Signature = append([]byte(nil), n.Signature...)
	}
	if n.PreimageHash != nil {
		out.PreimageHash = append([]byte(nil), n.PreimageHash...)
	}
	if n.Preimage != nil {
		out.Preimage = append([]byte(nil), n.Preimage...)
	}
	if n.Subconditions != nil {
		out.Subconditions = make([]*Node, len(n.Subconditions))
		for i, s := range n.Subconditions {
			out.Subconditions[i] = s.Clone()
		}
	}
	return out
}

// ToDetailMap encodes node recursively into the JSON detail-map shape
// used inside transaction bodies (spec.md §3 "detail map").
func (n *Node) ToDetailMap() map[string]any {
	m := map[string]any{"type": n.Kind.String()}
	switch n.Kind {
	case KindEd25519:
		m["public_key"] = EncodePublicKey(n.PublicKey)
		if n.Signature != nil {
			m["signature"] = base64.RawURLEncoding.EncodeToString(n.Signature)
		}
	case KindThreshold:
		m["threshold"] = n.Threshold
		subs := make([]any, len(n.Subconditions))
		for i, s := range n.Subconditions {
			subs[i] = s.ToDetailMap()
		}
		m["subconditions"] = subs
	case KindPreimage:
		m["preimage_hash"] = base58.Encode(n.PreimageHash)
		if n.Preimage != nil {
			m["preimage"] = base58.Encode(n.Preimage)
		}
	}
	return m
}

// FromDetailMap parses the recursive detail-map shape back into a Node,
// failing with ErrParseError on malformed structure or unknown type.
func FromDetailMap(m map[string]any) (*Node, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case KindEd25519.String():
		pkStr, ok := m["public_key"].(string)
		if !ok {
			return nil, errors.Wrap(ErrParseError, "ed25519 condition missing public_key")
		}
		pk, err := DecodePublicKey(pkStr)
		if err != nil {
			return nil, err
		}
		n := NewEd25519Condition(pk)
		if sigStr, ok := m["signature"].(string); ok {
			sig, err := base64.RawURLEncoding.DecodeString(sigStr)
			if err != nil {
				return nil, errors.Wrapf(ErrParseError, "invalid signature encoding: %v", err)
			}
			n.Signature = sig
		}
		return n, nil

	case KindThreshold.String():
		kf, ok := m["threshold"].(float64)
		if !ok {
			if ki, ok2 := m["threshold"].(int); ok2 {
				kf = float64(ki)
			} else {
				return nil, errors.Wrap(ErrParseError, "threshold condition missing threshold")
			}
		}
		rawSubs, ok := m["subconditions"].([]any)
		if !ok {
			return nil, errors.Wrap(ErrParseError, "threshold condition missing subconditions")
		}
		subs := make([]*Node, len(rawSubs))
		for i, rs := range rawSubs {
			sm, ok := rs.(map[string]any)
			if !ok {
				return nil, errors.Wrap(ErrParseError, "threshold subcondition is not an object")
			}
			sub, err := FromDetailMap(sm)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		return NewThresholdCondition(int(kf), subs)

	case KindPreimage.String():
		hashStr, ok := m["preimage_hash"].(string)
		if !ok {
			return nil, errors.Wrap(ErrParseError, "preimage condition missing preimage_hash")
		}
		hash, err := base58.Decode(hashStr)
		if err != nil {
			return nil, errors.Wrapf(ErrParseError, "invalid preimage_hash encoding: %v", err)
		}
		n := NewPreimageCondition(hash)
		if preStr, ok := m["preimage"].(string); ok {
			pre, err := base58.Decode(preStr)
			if err != nil {
				return nil, errors.Wrapf(ErrParseError, "invalid preimage encoding: %v", err)
			}
			n.Preimage = pre
		}
		return n, nil

	default:
		return nil, errors.Wrapf(ErrParseError, "unknown condition type %q", kind)
	}
}

// ConditionURI renders the compact content-addressed form of node.
// It depends only on structure and keys, never on signatures
// (spec.md §3).
func (n *Node) ConditionURI() string {
	switch n.Kind {
	case KindEd25519:
		return "cc:ed25519:" + EncodePublicKey(n.PublicKey)
	case KindPreimage:
		return "cc:preimage:" + base58.Encode(n.PreimageHash)
	case KindThreshold:
		joined := fmt.Sprintf("%d", n.Threshold)
		for _, s := range n.Subconditions {
			joined += ":" + s.ConditionURI()
		}
		return "cc:threshold:" + b58HashBytes([]byte(joined))
	default:
		return ""
	}
}

// isFulfilled reports whether node's reachable leaves already carry
// enough evidence, recursively honoring nested thresholds: a threshold
// subtree counts as one "fulfilled" unit towards its parent only once
// its own threshold is met.
func (n *Node) isFulfilled() bool {
	switch n.Kind {
	case KindEd25519:
		return n.Signature != nil
	case KindPreimage:
		return n.Preimage != nil
	case KindThreshold:
		satisfied := 0
		for _, s := range n.Subconditions {
			if s.isFulfilled() {
				satisfied++
			}
		}
		return satisfied >= n.Threshold
	default:
		return false
	}
}

// FulfillmentURI renders the fully-signed form of node: a reversible,
// base58-encoded detail map, requiring every threshold on the path to
// the root to already be met by already-signed leaves (spec.md §4.1).
// Unlike ConditionURI, the fulfillment form must be parseable back
// into a Node (ParseFulfillmentURI) so validators can re-verify
// individual signatures; it is therefore not itself a content hash.
func (n *Node) FulfillmentURI() (string, error) {
	if !n.isFulfilled() {
		return "", errors.Wrap(ErrInvalidSignature, "condition tree is not fully fulfilled")
	}
	b, err := json.Marshal(n.ToDetailMap())
	if err != nil {
		return "", errors.Wrap(err, "marshaling fulfillment detail map")
	}
	return "cf:1:" + base58.Encode(b), nil
}

// ParseFulfillmentURI reverses FulfillmentURI, failing with
// ErrParseError on malformed input.
func ParseFulfillmentURI(uri string) (*Node, error) {
	const prefix = "cf:1:"
	if len(uri) <= len(prefix) || uri[:len(prefix)] != prefix {
		return nil, errors.Wrapf(ErrParseError, "not a fulfillment uri: %q", uri)
	}
	raw, err := base58.Decode(uri[len(prefix):])
	if err != nil {
		return nil, errors.Wrapf(ErrParseError, "invalid base58 in fulfillment uri: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrapf(ErrParseError, "invalid fulfillment detail map: %v", err)
	}
	return FromDetailMap(m)
}

// SignLeaf signs node (which must be an Ed25519 leaf) with sk over message.
func (n *Node) SignLeaf(sk PrivateKey, message []byte) error {
	if n.Kind != KindEd25519 {
		return errors.Wrap(ErrKeypairMismatch, "SignLeaf called on a non-ed25519 node")
	}
	n.Signature = Sign(sk, message)
	return nil
}

// Verify reports whether node's fulfilled region satisfies its own
// condition over message, as of now (for time-bounded leaf kinds;
// unused by the variants in this package but threaded through per
// spec.md §4.1).
func (n *Node) Verify(message []byte, now time.Time) bool {
	switch n.Kind {
	case KindEd25519:
		if n.Signature == nil {
			return false
		}
		return Verify(n.PublicKey, message, n.Signature)

	case KindPreimage:
		if n.Preimage == nil {
			return false
		}
		sum := sha256.Sum256(n.Preimage)
		return string(sum[:]) == string(n.PreimageHash)

	case KindThreshold:
		satisfied := 0
		for _, s := range n.Subconditions {
			if s.Verify(message, now) {
				satisfied++
			}
		}
		return satisfied >= n.Threshold

	default:
		return false
	}
}

// FindLeavesByPublicKey collects every Ed25519 leaf under node whose
// public key matches pk.
func (n *Node) FindLeavesByPublicKey(pk ed25519.PublicKey) []*Node {
	var out []*Node
	switch n.Kind {
	case KindEd25519:
		if string(n.PublicKey) == string(pk) {
			out = append(out, n)
		}
	case KindThreshold:
		for _, s := range n.Subconditions {
			out = append(out, s.FindLeavesByPublicKey(pk)...)
		}
	}
	return out
}
