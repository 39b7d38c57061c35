package errors

import (
	"strings"
	"unicode"
)

// RootID is the identifier reserved for the virtual root of every sentence.
// Annotations may reference it as an edge head but never define it.
const RootID = "$$"

// maxIdentifierLength bounds node, group and token identifiers.
const maxIdentifierLength = 512

// ValidateIdentifier validates a node, group or token identifier taken from
// an annotation record. kind is used in the message only ("node", "token").
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Not the reserved root identifier
//   - Maximum length of 512 bytes
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidAnnotation, "%s identifier cannot be empty", kind)
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidAnnotation, "%s identifier too long (max %d bytes)", kind, maxIdentifierLength)
	}

	if id == RootID {
		return New(ErrCodeInvalidAnnotation, "%s identifier %q is reserved for the root", kind, id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidAnnotation, "%s identifier %q contains whitespace or control characters", kind, id)
		}
	}

	return nil
}

// ValidateEndpoint validates an edge endpoint. Unlike ValidateIdentifier it
// accepts the root identifier, which is a legal edge head.
func ValidateEndpoint(id string) error {
	if id == RootID {
		return nil
	}
	return ValidateIdentifier("edge endpoint", id)
}

// ValidateLabel validates an edge label. Any label is accepted except ones
// that differ from a reserved label only in case, which almost always means
// a typo that would silently turn an ambiguous edge into a specified one.
func ValidateLabel(label string, reserved ...string) error {
	for _, r := range reserved {
		if label != r && strings.EqualFold(label, r) {
			return New(ErrCodeInvalidAnnotation, "edge label %q looks like %q (labels are case-sensitive)", label, r)
		}
	}
	return nil
}
