package parsing

import "strings"

// markerPrefixes are the recognized prefixes inside a bracketed span.
var markerPrefixes = []string{
	"NEUER GEGENSTAND:",
	"ABENTEUER ABGESCHLOSSEN",
	"OPTION:",
	"SZENE:",
}

// StreamFilter consumes an unbounded sequence of text fragments and emits,
// per fragment, only the bytes guaranteed not to belong to a recognized
// marker. Fragment boundaries are arbitrary; a marker may be split at any
// byte, including inside a multi-byte rune, so the filter works byte-wise
// (the brackets are ASCII) and its output concatenation is invariant under
// refragmentation.
//
// It holds two states. In NORMAL, bytes pass straight through except '[',
// which opens a candidate span and is withheld. In CANDIDATE, bytes collect
// in the buffer; ']' resolves the span (swallowed if it is a recognized
// marker, emitted verbatim otherwise), and a byte that makes the buffer
// diverge from every prefix flushes '['+buffer and is reprocessed in NORMAL,
// so a '[' that broke one candidate can still open the next.
//
// Memory is bounded by the longest recognized prefix plus one payload; the
// buffer never contains ']'. The zero value is ready to use. Not safe for
// concurrent use; one instance serves exactly one streamed turn.
type StreamFilter struct {
	candidate bool
	buf       strings.Builder
}

// Feed processes one fragment and returns the text that may be shown to the
// user immediately. The returned string may be empty while a candidate span
// is pending.
func (f *StreamFilter) Feed(fragment string) string {
	if fragment == "" {
		return ""
	}

	var out strings.Builder
	for i := 0; i < len(fragment); i++ {
		f.step(fragment[i], &out)
	}
	return out.String()
}

// Flush resolves a dangling candidate at end of stream. An unterminated
// '[' span is not a marker and must not be silently lost.
func (f *StreamFilter) Flush() string {
	if !f.candidate {
		return ""
	}
	out := "[" + f.buf.String()
	f.buf.Reset()
	f.candidate = false
	return out
}

func (f *StreamFilter) step(b byte, out *strings.Builder) {
	if !f.candidate {
		if b == '[' {
			f.candidate = true
			f.buf.Reset()
			return
		}
		out.WriteByte(b)
		return
	}

	if b == ']' {
		if !isMarkerSpan(f.buf.String()) {
			out.WriteByte('[')
			out.WriteString(f.buf.String())
			out.WriteByte(']')
		}
		f.buf.Reset()
		f.candidate = false
		return
	}

	if couldBeMarker(f.buf.String() + string(b)) {
		f.buf.WriteByte(b)
		return
	}

	// Diverged: the span cannot be a marker anymore. Flush what was
	// withheld and reprocess the current byte in NORMAL state.
	out.WriteByte('[')
	out.WriteString(f.buf.String())
	f.buf.Reset()
	f.candidate = false
	f.step(b, out)
}

// couldBeMarker reports whether content, after leading whitespace, is still
// on track to become a recognized marker.
func couldBeMarker(content string) bool {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if trimmed == "" {
		return true
	}
	for _, prefix := range markerPrefixes {
		if strings.HasPrefix(trimmed, prefix) || strings.HasPrefix(prefix, trimmed) {
			return true
		}
	}
	return false
}

// isMarkerSpan reports whether a closed span should be swallowed: the
// trimmed content starts with a recognized prefix (payload follows) or is a
// non-empty prefix of one (truncated marker). Empty spans like "[]" pass
// through verbatim.
func isMarkerSpan(content string) bool {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if trimmed == "" {
		return false
	}
	for _, prefix := range markerPrefixes {
		if strings.HasPrefix(trimmed, prefix) || strings.HasPrefix(prefix, trimmed) {
			return true
		}
	}
	return false
}
