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

// Command ledgerdemo builds, signs, and validates a sample CREATE and
// a follow-on TRANSFER transaction, logging each stage. It is a
// demonstration of the ledger package's public API, not a node: it
// holds no state between runs and speaks to no network.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ledger "github.com/bigchain-go/ledger-go-sdk"
)

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:   "ledgerdemo",
		Short: "Build, sign, and validate a sample ledger transaction",
		RunE:  run,
	}
	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("ledgerdemo failed")
	}
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load() // optional .env; absence is not an error
	amount := envUint64("LEDGERDEMO_AMOUNT", 100)

	log.Info("generating signer keypair")
	sk, pk, err := ledger.GenerateKeyPair()
	if err != nil {
		return err
	}
	keys := ledger.NewKeyRing(sk)

	log.WithField("amount", amount).Info("building CREATE transaction")
	tx, err := ledger.Create(
		[]ledger.PublicKey{pk},
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{pk}, Amount: amount}},
		map[string]any{"note": "ledgerdemo create"},
		map[string]any{"name": "demo-asset"},
	)
	if err != nil {
		return err
	}

	log.Info("signing CREATE transaction")
	if err := ledger.Sign(tx, keys); err != nil {
		return err
	}

	id, err := tx.ComputeID()
	if err != nil {
		return err
	}
	tx.ID = id
	log.WithField("id", tx.ID).Info("CREATE transaction signed")

	ok, err := ledger.InputsValid(tx, nil)
	if err != nil {
		return err
	}
	log.WithField("valid", ok).Info("CREATE transaction validated")

	log.Info("spending the CREATE output in a TRANSFER")
	_, recipientPK, err := ledger.GenerateKeyPair()
	if err != nil {
		return err
	}
	inputs, err := tx.ToInputs(nil)
	if err != nil {
		return err
	}
	transferTx, err := ledger.Transfer(
		inputs,
		[]ledger.Recipient{{PublicKeys: []ledger.PublicKey{recipientPK}, Amount: amount}},
		tx.ID,
		nil,
	)
	if err != nil {
		return err
	}
	if err := ledger.Sign(transferTx, keys); err != nil {
		return err
	}
	transferID, err := transferTx.ComputeID()
	if err != nil {
		return err
	}
	transferTx.ID = transferID

	ok, err = ledger.InputsValid(transferTx, tx.Outputs)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"id":        transferTx.ID,
		"valid":     ok,
		"recipient": recipientPK,
	}).Info("TRANSFER transaction validated")

	return nil
}

func envUint64(name string, fallback uint64) uint64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
