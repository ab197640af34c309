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
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"
)

const (
	// PublicKeySize is the length in bytes of an Ed25519 public key.
	PublicKeySize = ed25519.PublicKeySize
	// PrivateKeySize is the length in bytes of an Ed25519 private key.
	PrivateKeySize = ed25519.PrivateKeySize
	// SignatureSize is the length in bytes of an Ed25519 signature.
	SignatureSize = ed25519.SignatureSize
)

// PublicKey is a base58-encoded Ed25519 public key, the wire form used
// throughout owners_before, public_keys and condition details.
type PublicKey = string

// PrivateKey is a raw Ed25519 private key, never serialized on the wire.
type PrivateKey = ed25519.PrivateKey

// GenerateKeyPair creates a fresh Ed25519 keypair.
func GenerateKeyPair() (PrivateKey, PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "generating ed25519 keypair")
	}
	return priv, EncodePublicKey(pub), nil
}

// EncodePublicKey renders raw Ed25519 key bytes as the base58 wire form.
func EncodePublicKey(pk ed25519.PublicKey) PublicKey {
	return base58.Encode(pk)
}

// DecodePublicKey parses the base58 wire form back into raw key bytes.
func DecodePublicKey(pk PublicKey) (ed25519.PublicKey, error) {
	b, err := base58.Decode(pk)
	if err != nil {
		return nil, errors.Wrapf(ErrParseError, "public key %q is not valid base58: %v", pk, err)
	}
	if len(b) != PublicKeySize {
		return nil, errors.Wrapf(ErrParseError, "public key %q decodes to %d bytes, want %d", pk, len(b), PublicKeySize)
	}
	return ed25519.PublicKey(b), nil
}

// Sign produces a detached Ed25519 signature over message using sk.
func Sign(sk PrivateKey, message []byte) []byte {
	return ed25519.Sign(sk, message)
}

// Verify reports whether sig is a valid Ed25519 signature of message under pk.
func Verify(pk ed25519.PublicKey, message, sig []byte) bool {
	if len(pk) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pk, message, sig)
}

// SHA3256 is the hash primitive used for both transaction identity
// (spec.md §4.5) and content-addressed condition URIs (§4.1).
func SHA3256(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// b58HashBytes base58-encodes a SHA3-256 digest; used wherever a
// content-addressed URI component is derived from arbitrary bytes.
func b58HashBytes(data []byte) string {
	h := SHA3256(data)
	return base58.Encode(h[:])
}
