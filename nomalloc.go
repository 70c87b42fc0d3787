//go:build aparse_nomalloc

package aparse

// UseMalloc reports whether the default allocator is compiled in.
const UseMalloc = false

// DefaultAllocator returns nil in builds without the default allocator.
// Parses that need variable-length output must then be given a buffer
// with WithBuffer or an Allocator of their own.
func DefaultAllocator() Allocator {
	return nil
}
