package testutil

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// RandomKey returns a unique object key with the given prefix, suitable for
// tests that run against a shared bucket.
func RandomKey(prefix string) string {
	return fmt.Sprintf("%s/%s", prefix, uuid.NewString())
}

// RandomBucket returns a unique, DNS-compliant bucket name.
func RandomBucket() string {
	return "s3transfer-test-" + uuid.NewString()
}

// PatternedData returns n bytes of deterministic, position-dependent data.
// Reassembled uploads can be compared byte for byte against a fresh copy, and
// any part-ordering mistake shows up as a content mismatch.
func PatternedData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251) // largest prime below 256 keeps the period off chunk boundaries
	}
	return data
}

// RandomData returns n bytes from a fixed-seed PRNG so failures reproduce.
func RandomData(n int) []byte {
	r := rand.New(rand.NewSource(42))
	data := make([]byte, n)
	r.Read(data)
	return data
}
