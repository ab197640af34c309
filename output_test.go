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
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	ledger "github.com/bigchain-go/ledger-go-sdk"
	"github.com/bigchain-go/ledger-go-sdk/internal/ledgertest"
)

func TestOutputAmountBounds(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()

	_, err := ledger.GenerateOutput([]ledger.PublicKey{pk}, 0)
	require.Error(t, err)

	_, err = ledger.GenerateOutput([]ledger.PublicKey{pk}, ledger.MaxAmount+1)
	require.Error(t, err)

	out, err := ledger.GenerateOutput([]ledger.PublicKey{pk}, ledger.MaxAmount)
	require.NoError(t, err)
	require.Equal(t, ledger.MaxAmount, out.Amount)
}

func TestGenerateOutputSingleOwnerIsBareLeaf(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()

	out, err := ledger.GenerateOutput([]ledger.PublicKey{pk}, 1)
	require.NoError(t, err)
	require.Equal(t, ledger.KindEd25519, out.Condition.Kind)
}

func TestGenerateOutputTwoOwnersIsThreshold(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	a := accounts.New()
	b := accounts.New()

	out, err := ledger.GenerateOutput([]ledger.PublicKey{a, b}, 1)
	require.NoError(t, err)
	require.Equal(t, ledger.KindThreshold, out.Condition.Kind)
	require.Equal(t, 2, out.Condition.Threshold)
	require.Len(t, out.Condition.Subconditions, 2)
}

func TestGenerateOutputConditionRejectsShortSublists(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	a := accounts.New()
	b := accounts.New()

	_, err := ledger.GenerateOutputCondition([]ledger.OwnerSpec{
		ledger.Sub(ledger.PK(a)),
		ledger.PK(b),
	})
	require.Error(t, err)
}

func TestOutputToMapFromMapRoundTrip(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	a := accounts.New()
	b := accounts.New()

	out, err := ledger.GenerateOutput([]ledger.PublicKey{a, b}, 42)
	require.NoError(t, err)

	m := out.ToMap()
	require.Equal(t, "42", m["amount"])

	parsed, err := ledger.OutputFromMap(m)
	require.NoError(t, err)
	require.Equal(t, out.Amount, parsed.Amount)
	require.Equal(t, out.Condition.ConditionURI(), parsed.Condition.ConditionURI())
}

func TestHashlockOutputOmitsPublicKeysAndDetails(t *testing.T) {
	preimage := []byte("the secret")
	hash := sha256.Sum256(preimage)
	cond := ledger.NewPreimageCondition(hash[:])

	out, err := ledger.NewOutput(10, nil, cond)
	require.NoError(t, err)

	m := out.ToMap()
	require.Nil(t, m["public_keys"])
	_, hasDetails := m["condition"].(map[string]any)["details"]
	require.False(t, hasDetails)

	parsed, err := ledger.OutputFromMap(m)
	require.NoError(t, err)
	require.Equal(t, out.Condition.ConditionURI(), parsed.Condition.ConditionURI())
}

func TestHashlockOutputRejectsDeclaredPublicKeys(t *testing.T) {
	preimage := []byte("the secret")
	hash := sha256.Sum256(preimage)
	cond := ledger.NewPreimageCondition(hash[:])

	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()

	_, err := ledger.NewOutput(10, []ledger.PublicKey{pk}, cond)
	require.Error(t, err)
}
