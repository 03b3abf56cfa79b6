package errors

import (
	"strings"
	"unicode"
)

// ValidatePartName validates an unscoped part name from provider metadata.
// Scoping markers and gating characters are reserved by the dependency
// spec grammar and may not appear in the name itself.
func ValidatePartName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMetadata, "part name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidMetadata, "part name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, ":?!#|") {
		return New(ErrCodeInvalidMetadata, "part name %q contains reserved characters", name)
	}

	return nil
}

// ValidateProviderName validates a provider (component) name.
// Provider names share a namespace with part scopes, so the same
// reserved characters apply, plus the '.' used for hierarchical parts.
func ValidateProviderName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMetadata, "provider name cannot be empty")
	}

	if strings.Contains(name, ".") {
		return New(ErrCodeInvalidMetadata, "provider name %q cannot contain '.'", name)
	}

	return ValidatePartName(name)
}
