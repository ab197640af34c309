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

import "github.com/pkg/errors"

// Transaction is the atomic unit by which assets are created and
// transferred between owners identified by public keys (spec.md §3).
//
// Unlike the teacher's fluent Transaction (NewTransaction().
// SetScript(...).AddAuthorizer(...)), construction here goes through
// the three factory functions below — CREATE/TRANSFER/GENESIS are
// different enough in their asset-payload and input shape that a
// single mutable builder would hide more invariants than it enforces.
type Transaction struct {
	ID        string
	Version   string
	Operation Operation
	Asset     map[string]any // nil, {"data": ...} or {"id": ...}
	Inputs    []*Input
	Outputs   []*Output
	Metadata  map[string]any
}

// Recipient is one (owner spec, amount) pair passed to Create/Transfer/Genesis.
type Recipient struct {
	PublicKeys []PublicKey
	Amount     uint64
}

// Create builds an unsigned CREATE transaction: one Input generated
// over signerPKs, and one Output per recipient (spec.md §4.6).
func Create(signerPKs []PublicKey, recipients []Recipient, metadata map[string]any, assetData any) (*Transaction, error) {
	return build(OperationCreate, signerPKs, recipients, metadata, assetPayloadForCreate(assetData))
}

// Genesis is identical in shape to Create but tags the transaction as
// the chain's genesis operation (spec.md §4.6).
func Genesis(signerPKs []PublicKey, recipients []Recipient, metadata map[string]any, assetData any) (*Transaction, error) {
	return build(OperationGenesis, signerPKs, recipients, metadata, assetPayloadForCreate(assetData))
}

func assetPayloadForCreate(assetData any) map[string]any {
	if assetData == nil {
		return nil
	}
	return map[string]any{"data": assetData}
}

func build(op Operation, signerPKs []PublicKey, recipients []Recipient, metadata map[string]any, asset map[string]any) (*Transaction, error) {
	if len(signerPKs) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "signer_pks must not be empty")
	}
	if len(recipients) == 0 {
		return nil, errors.Wrap(ErrInvalidAsset, "recipients must not be empty")
	}
	input, err := GenerateInput(signerPKs)
	if err != nil {
		return nil, err
	}
	input.Fulfills = EmptyTransactionLink
	outputs := make([]*Output, len(recipients))
	for i, r := range recipients {
		o, err := GenerateOutput(r.PublicKeys, r.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "recipient %d", i)
		}
		outputs[i] = o
	}
	return &Transaction{
		Version:   CurrentVersion,
		Operation: op,
		Asset:     asset,
		Inputs:    []*Input{input},
		Outputs:   outputs,
		Metadata:  metadata,
	}, nil
}

// Transfer builds an unsigned TRANSFER transaction spending the given
// (previously-owned) inputs. Inputs are copied defensively so the
// caller's own Input slice cannot be mutated by later signing
// (spec.md §4.6, §5).
func Transfer(inputs []*Input, recipients []Recipient, assetID string, metadata map[string]any) (*Transaction, error) {
	if len(inputs) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "inputs must not be empty")
	}
	if len(recipients) == 0 {
		return nil, errors.Wrap(ErrInvalidAsset, "recipients must not be empty")
	}
	if assetID == "" {
		return nil, errors.Wrap(ErrInvalidAsset, "asset_id must not be empty")
	}
	cloned := make([]*Input, len(inputs))
	for i, in := range inputs {
		if in.Fulfills.IsEmpty() {
			return nil, errors.Wrapf(ErrInvalidOperation, "input %d does not name a fulfills link", i)
		}
		cloned[i] = in.Clone()
	}
	outputs := make([]*Output, len(recipients))
	for i, r := range recipients {
		o, err := GenerateOutput(r.PublicKeys, r.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "recipient %d", i)
		}
		outputs[i] = o
	}
	return &Transaction{
		Version:   CurrentVersion,
		Operation: OperationTransfer,
		Asset:     map[string]any{"id": assetID},
		Inputs:    cloned,
		Outputs:   outputs,
		Metadata:  metadata,
	}, nil
}

// ToInputs converts this transaction's own outputs into spendable
// Inputs, cloning each output's condition and attaching a
// TransactionLink to (tx.ID, index). A nil indices selects all outputs
// (spec.md §4.6).
func (tx *Transaction) ToInputs(indices []int) ([]*Input, error) {
	if tx.ID == "" {
		return nil, errors.Wrap(ErrInvalidHash, "transaction has no id; compute it before deriving inputs")
	}
	if indices == nil {
		indices = make([]int, len(tx.Outputs))
		for i := range tx.Outputs {
			indices[i] = i
		}
	}
	out := make([]*Input, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(tx.Outputs) {
			return nil, errors.Wrapf(ErrParseError, "output index %d out of range", idx)
		}
		o := tx.Outputs[idx]
		out[i] = &Input{
			OwnersBefore: append([]PublicKey(nil), o.PublicKeys...),
			Fulfillment:  o.Condition.Clone(),
			Fulfills:     NewTransactionLink(tx.ID, uint(idx)),
		}
	}
	return out, nil
}

// GetAssetID returns the common asset id shared by txs: the id of a
// CREATE/GENESIS transaction, or the referenced id of a TRANSFER. It
// fails with ErrAssetIDMismatch if more than one distinct value is
// observed (spec.md §4.6).
func GetAssetID(txs []*Transaction) (string, error) {
	if len(txs) == 0 {
		return "", errors.Wrap(ErrInvalidAsset, "asset id requires at least one transaction")
	}
	var assetID string
	for i, tx := range txs {
		id, err := tx.assetID()
		if err != nil {
			return "", err
		}
		if i == 0 {
			assetID = id
			continue
		}
		if id != assetID {
			return "", errors.Wrapf(ErrAssetIDMismatch, "transaction %d has asset id %q, expected %q", i, id, assetID)
		}
	}
	return assetID, nil
}

func (tx *Transaction) assetID() (string, error) {
	switch tx.Operation {
	case OperationCreate, OperationGenesis:
		if tx.ID == "" {
			return "", errors.Wrap(ErrInvalidHash, "transaction has no id")
		}
		return tx.ID, nil
	case OperationTransfer:
		id, ok := tx.Asset["id"].(string)
		if !ok {
			return "", errors.Wrap(ErrInvalidAsset, "TRANSFER asset payload missing id")
		}
		return id, nil
	default:
		return "", errors.Wrapf(ErrInvalidOperation, "unknown operation %q", tx.Operation)
	}
}

// ToMap renders the transaction in its canonical JSON shape. When
// signed is false, each input's fulfillment is rendered as its detail
// map (the unsigned, in-memory form); when true, as its fulfillment
// URI.
func (tx *Transaction) ToMap(signed bool) (map[string]any, error) {
	if err := tx.validateStructure(); err != nil {
		return nil, err
	}
	inputs := make([]any, len(tx.Inputs))
	for i, in := range tx.Inputs {
		m, err := in.ToMap(signed)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		inputs[i] = m
	}
	outputs := make([]any, len(tx.Outputs))
	for i, o := range tx.Outputs {
		outputs[i] = o.ToMap()
	}
	var asset any
	if tx.Asset != nil {
		asset = tx.Asset
	}
	var metadata any
	if tx.Metadata != nil {
		metadata = tx.Metadata
	}
	m := map[string]any{
		"version":   tx.Version,
		"operation": string(tx.Operation),
		"asset":     asset,
		"metadata":  metadata,
		"inputs":    inputs,
		"outputs":   outputs,
	}
	if tx.ID != "" {
		m["id"] = tx.ID
	}
	return m, nil
}

// validateStructure checks the basic shape invariants of spec.md §3
// that are not already enforced by Input/Output construction: a
// non-empty Version, and at least one input and one output.
func (tx *Transaction) validateStructure() error {
	if tx.Version == "" {
		return errors.Wrap(ErrParseError, "version must not be empty")
	}
	if len(tx.Inputs) == 0 {
		return errors.Wrap(ErrInvalidOwnerSpec, "transaction must have at least one input")
	}
	if len(tx.Outputs) == 0 {
		return errors.Wrap(ErrInvalidOwnerSpec, "transaction must have at least one output")
	}
	switch tx.Operation {
	case OperationCreate, OperationTransfer, OperationGenesis:
	default:
		return errors.Wrapf(ErrInvalidOperation, "unknown operation %q", tx.Operation)
	}
	return nil
}

// ComputeID returns the hex SHA3-256 id this transaction would have
// given its current (signed) contents, without mutating tx.ID
// (spec.md §3 identity invariant).
func (tx *Transaction) ComputeID() (string, error) {
	m, err := tx.ToMap(true)
	if err != nil {
		return "", err
	}
	return computeID(m)
}

// TransactionFromMap parses a Transaction from its canonical JSON
// shape. It does not itself validate the id; call ValidateID for that
// (spec.md §4.8).
func TransactionFromMap(m map[string]any) (*Transaction, error) {
	version, _ := m["version"].(string)
	if version != CurrentVersion {
		return nil, errors.Wrapf(ErrParseError, "unsupported version %q, want %q", version, CurrentVersion)
	}
	opStr, _ := m["operation"].(string)
	op := Operation(opStr)

	var asset map[string]any
	if raw, ok := m["asset"].(map[string]any); ok {
		asset = raw
	}
	if err := validateAssetPayload(op, asset); err != nil {
		return nil, err
	}

	var metadata map[string]any
	if raw, ok := m["metadata"].(map[string]any); ok {
		metadata = raw
	}

	rawInputs, ok := m["inputs"].([]any)
	if !ok || len(rawInputs) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "inputs must be a non-empty list")
	}
	inputs := make([]*Input, len(rawInputs))
	for i, ri := range rawInputs {
		im, ok := ri.(map[string]any)
		if !ok {
			return nil, errParseWrap("input entries must be objects")
		}
		in, err := InputFromMap(im)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		if err := validateInputLink(op, in); err != nil {
			return nil, err
		}
		inputs[i] = in
	}

	rawOutputs, ok := m["outputs"].([]any)
	if !ok || len(rawOutputs) == 0 {
		return nil, errors.Wrap(ErrInvalidOwnerSpec, "outputs must be a non-empty list")
	}
	outputs := make([]*Output, len(rawOutputs))
	for i, ro := range rawOutputs {
		om, ok := ro.(map[string]any)
		if !ok {
			return nil, errParseWrap("output entries must be objects")
		}
		o, err := OutputFromMap(om)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		outputs[i] = o
	}

	id, _ := m["id"].(string)

	return &Transaction{
		ID:        id,
		Version:   version,
		Operation: op,
		Asset:     asset,
		Inputs:    inputs,
		Outputs:   outputs,
		Metadata:  metadata,
	}, nil
}

func validateAssetPayload(op Operation, asset map[string]any) error {
	switch op {
	case OperationCreate, OperationGenesis:
		// null or any map carrying "data" is accepted as-is
		if asset == nil {
			return nil
		}
		if _, ok := asset["data"]; !ok {
			return errors.Wrap(ErrInvalidAsset, "CREATE/GENESIS asset payload must carry a data field")
		}
		return nil
	case OperationTransfer:
		if asset == nil {
			return errors.Wrap(ErrInvalidAsset, "TRANSFER requires an asset payload")
		}
		if _, ok := asset["id"].(string); !ok {
			return errors.Wrap(ErrInvalidAsset, "TRANSFER asset payload must carry a string id")
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidOperation, "unknown operation %q", op)
	}
}

func validateInputLink(op Operation, in *Input) error {
	switch op {
	case OperationCreate, OperationGenesis:
		if !in.Fulfills.IsEmpty() {
			return errors.Wrap(ErrInvalidOperation, "CREATE/GENESIS inputs must not name a fulfills link")
		}
	case OperationTransfer:
		if in.Fulfills.IsEmpty() {
			return errors.Wrap(ErrInvalidOperation, "TRANSFER inputs must name a fulfills link")
		}
	}
	return nil
}

// ValidateID recomputes the transaction id from its declared map and
// fails with ErrInvalidHash on mismatch or absence (spec.md §4.8).
func ValidateID(txMap map[string]any) error {
	declared, ok := txMap["id"].(string)
	if !ok || declared == "" {
		return errors.Wrap(ErrInvalidHash, "transaction has no declared id")
	}
	stripped := make(map[string]any, len(txMap))
	for k, v := range txMap {
		if k == "id" {
			continue
		}
		stripped[k] = v
	}
	recomputed, err := computeID(stripped)
	if err != nil {
		return err
	}
	if recomputed != declared {
		return errors.Wrapf(ErrInvalidHash, "declared id %q does not match recomputed id %q", declared, recomputed)
	}
	return nil
}
