// Package naming derives the deterministic identifiers that tie owners,
// files and generated contexts together: scope keys and context names.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
)

// NoFileHash is the sentinel digest used when a path cannot be resolved.
// Entries keyed by it are not collision-safe; callers must not rely on
// uniqueness for them.
const NoFileHash = "00000000"

// ContextNamePrefix is the fixed prefix of every generated context name.
const ContextNamePrefix = "CTX_"

// FileHash returns an 8-hex-char digest of the absolute form of path. The
// digest namespaces owners per file; it is not a security boundary.
func FileHash(path string) string {
	if path == "" {
		return NoFileHash
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return NoFileHash
	}
	sum := sha256.Sum256([]byte(filepath.ToSlash(abs)))
	return hex.EncodeToString(sum[:])[:8]
}

// ScopeKey uniquely identifies one owner within one file.
func ScopeKey(ownerName, fileHash string) string {
	return ownerName + "_" + fileHash
}

// ContextName is the canonical, globally unique context identifier for a
// scope key.
func ContextName(scopeKey string) string {
	return ContextNamePrefix + scopeKey
}

// OwnerOfScopeKey recovers the owner name from a scope key. Owner names may
// themselves contain underscores; the hash is always the final segment.
func OwnerOfScopeKey(scopeKey string) string {
	i := strings.LastIndex(scopeKey, "_")
	if i < 0 {
		return scopeKey
	}
	return scopeKey[:i]
}

// HashOfScopeKey returns the file-hash segment of a scope key.
func HashOfScopeKey(scopeKey string) string {
	i := strings.LastIndex(scopeKey, "_")
	if i < 0 {
		return ""
	}
	return scopeKey[i+1:]
}

// LowerFirst returns the owner's local state binding name (Counter ->
// counter).
func LowerFirst(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// SetterName returns the owner's state setter name (Counter -> setCounter).
func SetterName(name string) string {
	if name == "" {
		return "set"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return "set" + string(r)
}

// IsOwnerName reports whether a derived function name marks a render owner
// (uppercase-leading, the host framework's component convention).
func IsOwnerName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper([]rune(name)[0])
}
