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

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ledger "github.com/bigchain-go/ledger-go-sdk"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	_, pk, err := ledger.GenerateKeyPair()
	require.NoError(t, err)

	raw, err := ledger.DecodePublicKey(pk)
	require.NoError(t, err)
	require.Equal(t, ledger.PublicKeySize, len(raw))
	require.Equal(t, pk, ledger.EncodePublicKey(raw))
}

func TestDecodePublicKeyRejectsMalformed(t *testing.T) {
	_, err := ledger.DecodePublicKey("not-base58-!!!")
	require.Error(t, err)

	_, err = ledger.DecodePublicKey(ledger.EncodePublicKey([]byte("too-short")))
	require.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	sk, pk, err := ledger.GenerateKeyPair()
	require.NoError(t, err)
	raw, err := ledger.DecodePublicKey(pk)
	require.NoError(t, err)

	msg := []byte("hello ledger")
	sig := ledger.Sign(sk, msg)
	require.True(t, ledger.Verify(raw, msg, sig))
	require.False(t, ledger.Verify(raw, []byte("tampered"), sig))
}

func TestSHA3256Deterministic(t *testing.T) {
	a := ledger.SHA3256([]byte("abc"))
	b := ledger.SHA3256([]byte("abc"))
	require.Equal(t, a, b)

	c := ledger.SHA3256([]byte("abd"))
	require.NotEqual(t, a, c)
}
