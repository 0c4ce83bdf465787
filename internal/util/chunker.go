package util

const DefaultChunkSize = 2000

// ChunkText slices text into contiguous runs of at most size runes. Chunks do
// not overlap and are not trimmed, so joining them reproduces text exactly.
func ChunkText(text string, size int) []string {
	if size < 1 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}
