package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer derives cache keys.
type Keyer interface {
	// AnalysisKey identifies the analysis of one repository snapshot.
	// treeHash fingerprints the listing and manifest contents; opts holds
	// any analysis options that change the result.
	AnalysisKey(repo, ref, treeHash string, opts any) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey hashes all inputs under the "analysis" prefix.
func (DefaultKeyer) AnalysisKey(repo, ref, treeHash string, opts any) string {
	return hashKey("analysis", repo, ref, treeHash, opts)
}
