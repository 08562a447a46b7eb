package ingest

import "iter"

// Chunk yields contiguous windows of s, each size long except possibly the
// last. The windows alias s, so nothing is copied; their capacity is clipped so
// appending to one can't clobber the next.
//
// Chunk panics if size is not positive.
func Chunk[T any](s []T, size int) iter.Seq[[]T] {
	if size <= 0 {
		panic("ingest: chunk size must be positive")
	}

	return func(yield func([]T) bool) {
		for start := 0; start < len(s); start += size {
			end := min(start+size, len(s))
			if !yield(s[start:end:end]) {
				return
			}
		}
	}
}

// ChunkSeq is [Chunk] for sources that are themselves lazy. Only the chunk being
// filled is held in memory.
func ChunkSeq[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	if size <= 0 {
		panic("ingest: chunk size must be positive")
	}

	return func(yield func([]T) bool) {
		buf := make([]T, 0, size)
		for v := range seq {
			buf = append(buf, v)
			if len(buf) < size {
				continue
			}
			if !yield(buf) {
				return
			}
			buf = make([]T, 0, size)
		}
		if len(buf) > 0 {
			yield(buf)
		}
	}
}
