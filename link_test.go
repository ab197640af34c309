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

func TestEmptyTransactionLink(t *testing.T) {
	require.True(t, ledger.EmptyTransactionLink.IsEmpty())
	require.Nil(t, ledger.EmptyTransactionLink.ToMap())
	require.Equal(t, "", ledger.EmptyTransactionLink.ToURI("https://example.com"))
}

func TestTransactionLinkToMapFromMapRoundTrip(t *testing.T) {
	link := ledger.NewTransactionLink("abc123", 2)
	require.False(t, link.IsEmpty())

	m := link.ToMap()
	require.Equal(t, "abc123", m["txid"])
	require.Equal(t, uint(2), m["output"])

	parsed, err := ledger.TransactionLinkFromMap(m)
	require.NoError(t, err)
	require.Equal(t, link, parsed)
}

func TestTransactionLinkFromNilMapIsEmpty(t *testing.T) {
	parsed, err := ledger.TransactionLinkFromMap(nil)
	require.NoError(t, err)
	require.True(t, parsed.IsEmpty())
}

func TestTransactionLinkFromMapRejectsMissingFields(t *testing.T) {
	_, err := ledger.TransactionLinkFromMap(map[string]any{"output": 1})
	require.Error(t, err)

	_, err = ledger.TransactionLinkFromMap(map[string]any{"txid": "abc123"})
	require.Error(t, err)
}

func TestTransactionLinkToURI(t *testing.T) {
	link := ledger.NewTransactionLink("abc123", 0)
	require.Equal(t, "https://example.com/transactions/abc123/outputs/0", link.ToURI("https://example.com"))
}
