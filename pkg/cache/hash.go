package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Keyer derives cache keys.
type Keyer interface {
	// CountKey is the key of a single homomorphism count.
	CountKey(opts CountKeyOpts) string

	// ClassesKey is the key of the class list of a decomposition and target.
	ClassesKey(opts ClassesKeyOpts) string
}

// CountKeyOpts identifies a count. Input fields are content hashes.
type CountKeyOpts struct {
	Mode          string `json:"mode"`
	Decomposition string `json:"decomposition,omitempty"`
	Pattern       string `json:"pattern"`
	Target        string `json:"target"`
}

// ClassesKeyOpts identifies a class list. Input fields are content hashes.
type ClassesKeyOpts struct {
	Mode          string `json:"mode"`
	Decomposition string `json:"decomposition"`
	Target        string `json:"target"`
}

// DefaultKeyer produces "count:<sha>" and "classes:<sha>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CountKey(opts CountKeyOpts) string {
	return hashKey("count", opts)
}

func (DefaultKeyer) ClassesKey(opts ClassesKeyOpts) string {
	return hashKey("classes", opts)
}
