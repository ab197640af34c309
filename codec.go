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
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// CurrentVersion is the exact version string required on ingest
// (spec.md §9 open question (a): exact match, no negotiation).
const CurrentVersion = "2.0"

// canonicalJSON renders v as UTF-8 JSON with no insignificant
// whitespace and maps recursively sorted by key at every level
// (spec.md §4.5, §6). encoding/json already sorts map[string]any keys
// alphabetically and emits compact output by default; normalize first
// copies every nested map[string]any and []any level. Values of any
// other type, structs included, reach encoding/json unchanged, so a
// struct's fields appear in declaration order, not key order.
func canonicalJSON(v any) ([]byte, error) {
	norm := normalize(v)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm); err != nil {
		return nil, errors.Wrap(err, "canonical json encode")
	}
	// json.Encoder.Encode appends a trailing newline; canonical bytes
	// must not carry insignificant whitespace.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// normalize returns a recursive copy of v in which every
// map[string]any and []any level is freshly allocated; a nil map or
// slice stays nil so it encodes as JSON null. Values of other types
// are returned as-is.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return nil
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// signatureStrippedBody returns a deep copy of txMap in which every
// input's fulfillment field is replaced by null, and any "id" field is
// removed (spec.md §4.5).
func signatureStrippedBody(txMap map[string]any) map[string]any {
	out := make(map[string]any, len(txMap))
	for k, v := range txMap {
		if k == "id" {
			continue
		}
		out[k] = normalize(v)
	}
	if rawInputs, ok := out["inputs"].([]any); ok {
		stripped := make([]any, len(rawInputs))
		for i, ri := range rawInputs {
			in, ok := ri.(map[string]any)
			if !ok {
				stripped[i] = ri
				continue
			}
			cp := make(map[string]any, len(in))
			for k, v := range in {
				cp[k] = v
			}
			cp["fulfillment"] = nil
			stripped[i] = cp
		}
		out["inputs"] = stripped
	}
	return out
}

// computeID hashes the signature-stripped canonical body of txMap and
// hex-encodes the SHA3-256 digest (spec.md §4.5).
func computeID(txMap map[string]any) (string, error) {
	stripped := signatureStrippedBody(txMap)
	canon, err := canonicalJSON(stripped)
	if err != nil {
		return "", err
	}
	sum := SHA3256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// --- small shared parsing helpers used across link.go/output.go/input.go ---

func errParseWrap(msg string) error {
	return errors.Wrap(ErrParseError, msg)
}

// toUint coerces a decoded-JSON numeric value (float64 from
// encoding/json, or int if constructed in-process) into a uint.
func toUint(v any) (uint, error) {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0, errors.New("negative value")
		}
		return uint(t), nil
	case int:
		if t < 0 {
			return 0, errors.New("negative value")
		}
		return uint(t), nil
	case uint:
		return t, nil
	default:
		return 0, errors.New("not a number")
	}
}

func decodeBase58(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrParseError, "invalid base58 %q: %v", s, err)
	}
	return b, nil
}
