package ingest

import "strings"

// Split methods accepted by SplitText and IngestText.
const (
	MethodParagraph = "paragraph"
	MethodLines     = "lines"
)

// linesPerChunk is the group size for the "lines" method.
const linesPerChunk = 10

// SplitText cuts text into non-empty chunks. "paragraph" splits on blank
// lines, "lines" groups every ten raw lines, and each chunk is trimmed of
// surrounding whitespace. When a method produces nothing (including an
// unknown method name) but the input itself is non-blank, the whole
// trimmed input becomes a single chunk, so ingestion never silently drops
// content.
func SplitText(text, method string) []string {
	chunks := []string{}

	switch method {
	case MethodParagraph:
		for _, para := range strings.Split(text, "\n\n") {
			if cleaned := strings.TrimSpace(para); cleaned != "" {
				chunks = append(chunks, cleaned)
			}
		}
	case MethodLines:
		lines := strings.Split(text, "\n")
		for i := 0; i < len(lines); i += linesPerChunk {
			end := i + linesPerChunk
			if end > len(lines) {
				end = len(lines)
			}
			if chunk := strings.TrimSpace(strings.Join(lines[i:end], "\n")); chunk != "" {
				chunks = append(chunks, chunk)
			}
		}
	}

	if len(chunks) == 0 {
		if cleaned := strings.TrimSpace(text); cleaned != "" {
			chunks = append(chunks, cleaned)
		}
	}
	return chunks
}
