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

// Package ledgertest adapts the teacher's test/entities.go generator
// pattern (a small counting struct with a New() method, one per
// entity kind) to this module's domain: deterministic Ed25519
// keypairs and accounts (public keys plus a KeyRing), so unit tests don't
// each hand-roll key generation.
package ledgertest

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/ed25519"

	ledger "github.com/bigchain-go/ledger-go-sdk"
)

// KeyPairs is a deterministic Ed25519 keypair generator: the same
// sequence of New() calls always yields the same keys, so test
// expectations can hardcode ids and signatures.
type KeyPairs struct {
	count int
}

// KeyPairGenerator returns a fresh KeyPairs sequence starting at 1.
func KeyPairGenerator() *KeyPairs {
	return &KeyPairs{count: 1}
}

// KeyPair is one deterministic (private, public) pair.
type KeyPair struct {
	PrivateKey ledger.PrivateKey
	PublicKey  ledger.PublicKey
}

// New returns the next deterministic keypair in the sequence.
func (g *KeyPairs) New() KeyPair {
	defer func() { g.count++ }()
	return newKeyPair(g.count)
}

func newKeyPair(seed int) KeyPair {
	var h [32]byte = sha256.Sum256([]byte(fmt.Sprintf("ledgertest-seed-%d", seed)))
	sk := ed25519.NewKeyFromSeed(h[:])
	pub := sk.Public().(ed25519.PublicKey)
	return KeyPair{
		PrivateKey: sk,
		PublicKey:  ledger.EncodePublicKey(pub),
	}
}

// Accounts groups a KeyPairs generator with the KeyRing built from
// every key it has produced so far, mirroring the teacher's
// AccountGenerator composition of AddressGenerator + AccountKeyGenerator.
type Accounts struct {
	keys *KeyPairs
	ring ledger.KeyRing
}

// AccountGenerator returns a fresh Accounts sequence.
func AccountGenerator() *Accounts {
	return &Accounts{keys: KeyPairGenerator(), ring: ledger.KeyRing{}}
}

// New returns the next deterministic public key and records its
// private key in the accumulated KeyRing.
func (a *Accounts) New() ledger.PublicKey {
	kp := a.keys.New()
	a.ring[kp.PublicKey] = kp.PrivateKey
	return kp.PublicKey
}

// KeyRing returns every key produced by New() so far.
func (a *Accounts) KeyRing() ledger.KeyRing {
	return a.ring
}
