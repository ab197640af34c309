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
	"time"

	"github.com/stretchr/testify/require"

	ledger "github.com/bigchain-go/ledger-go-sdk"
	"github.com/bigchain-go/ledger-go-sdk/internal/ledgertest"
)

func TestInputsValidCreateIgnoresReferencedOutputs(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()
	ring := accounts.KeyRing()

	tx, err := ledger.Create(
		[]ledger.PublicKey{pk},
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{pk}, Amount: 10}},
		nil, nil,
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Sign(tx, ring))

	ok, err := ledger.InputsValid(tx, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInputsValidTransferRequiresMatchingCount(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()
	ring := accounts.KeyRing()

	createTx, err := ledger.Create(
		[]ledger.PublicKey{pk},
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{pk}, Amount: 10}},
		nil, nil,
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Sign(createTx, ring))
	id, err := createTx.ComputeID()
	require.NoError(t, err)
	createTx.ID = id

	inputs, err := createTx.ToInputs(nil)
	require.NoError(t, err)

	recipient := accounts.New()
	transferTx, err := ledger.Transfer(
		inputs,
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{recipient}, Amount: 10}},
		createTx.ID, nil,
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Sign(transferTx, ring))

	_, err = ledger.InputsValid(transferTx, nil)
	require.ErrorIs(t, err, ledger.ErrInvalidOperation)

	ok, err := ledger.InputsValid(transferTx, createTx.Outputs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInputsValidTransferRejectsMismatchedCondition(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()
	other := accounts.New()
	ring := accounts.KeyRing()

	createTx, err := ledger.Create(
		[]ledger.PublicKey{pk},
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{pk}, Amount: 10}},
		nil, nil,
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Sign(createTx, ring))
	id, err := createTx.ComputeID()
	require.NoError(t, err)
	createTx.ID = id

	inputs, err := createTx.ToInputs(nil)
	require.NoError(t, err)
	transferTx, err := ledger.Transfer(
		inputs,
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{other}, Amount: 10}},
		createTx.ID, nil,
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Sign(transferTx, ring))

	wrongOutput, err := ledger.GenerateOutput([]ledger.PublicKey{other}, 10)
	require.NoError(t, err)

	ok, err := ledger.InputsValid(transferTx, []*ledger.Output{wrongOutput})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInputsValidAtRejectsUnsignedFulfillment(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()

	tx, err := ledger.Create(
		[]ledger.PublicKey{pk},
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{pk}, Amount: 10}},
		nil, nil,
	)
	require.NoError(t, err)

	ok, err := ledger.InputsValidAt(tx, nil, time.Now())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInputsValidUnknownOperationRaises(t *testing.T) {
	accounts := ledgertest.AccountGenerator()
	pk := accounts.New()
	out, err := ledger.GenerateOutput([]ledger.PublicKey{pk}, 10)
	require.NoError(t, err)
	in, err := ledger.GenerateInput([]ledger.PublicKey{pk})
	require.NoError(t, err)

	tx := &ledger.Transaction{
		Version:   ledger.CurrentVersion,
		Operation: "BOGUS",
		Inputs:    []*ledger.Input{in},
		Outputs:   []*ledger.Output{out},
	}

	_, err = ledger.InputsValid(tx, nil)
	require.ErrorIs(t, err, ledger.ErrInvalidOperation)
}
