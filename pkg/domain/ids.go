// Package domain holds typed identifiers shared across the engine.
//
// Usage: construct via the Parse* functions at trust boundaries so handlers
// never pass raw strings into services; direct casting bypasses validation.
package domain

import (
	dErrors "vigil/pkg/domain-errors"
)

// OracleID identifies an authorized external data provider.
type OracleID string

// EntityID identifies a tracked compliance subject.
type EntityID string

// ParseOracleID constructs an OracleID from external input.
func ParseOracleID(s string) (OracleID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidData, "oracle id cannot be empty")
	}
	return OracleID(s), nil
}

// ParseEntityID constructs an EntityID from external input.
func ParseEntityID(s string) (EntityID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidData, "entity id cannot be empty")
	}
	return EntityID(s), nil
}

func (o OracleID) IsNil() bool    { return o == "" }
func (o OracleID) String() string { return string(o) }

func (e EntityID) IsNil() bool    { return e == "" }
func (e EntityID) String() string { return string(e) }
