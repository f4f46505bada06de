package dupe

// 32-bit FNV-1a constants.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// bucketFor maps a base name to a bucket index: FNV-1a over the raw bytes
// of name, reduced modulo the table size. Unsigned arithmetic keeps the
// result non-negative regardless of multiplication overflow. The empty
// name hashes to the offset basis, so it still lands in a valid bucket.
func bucketFor(name string, buckets int) int {
	h := fnvOffset32
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= fnvPrime32
	}
	return int(h % uint32(buckets))
}
