package dupe

import "testing"

// Published FNV-1a 32-bit reference values.
var fnvVectors = []struct {
	name string
	hash uint32
}{
	{"", 0x811c9dc5},
	{"a", 0xe40c292c},
	{"foobar", 0xbf9cf968},
}

func TestBucketFor(t *testing.T) {
	for _, size := range []int{1, 7, 512000} {
		for _, v := range fnvVectors {
			want := int(v.hash % uint32(size))
			got := bucketFor(v.name, size)
			if got != want {
				t.Errorf("bucketFor(%q, %d) = %d, want %d", v.name, size, got, want)
			}
			if got < 0 || got >= size {
				t.Errorf("bucketFor(%q, %d) = %d, out of range", v.name, size, got)
			}
		}
	}
}

func TestBucketForDeterministic(t *testing.T) {
	names := []string{"notes.txt", "Makefile", "a.out", "vmlinuz-5.10.0"}
	for _, name := range names {
		first := bucketFor(name, DefaultTableSize)
		for i := 0; i < 10; i++ {
			if got := bucketFor(name, DefaultTableSize); got != first {
				t.Fatalf("bucketFor(%q) not stable: %d then %d", name, first, got)
			}
		}
	}
}
