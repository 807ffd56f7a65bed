package model

import (
	"iter"
	"strings"
)

// Stream is a lazy, finite sequence of text chunks. A non-nil error is always the
// last value yielded. Ranging over a Stream a second time re-issues the request.
//
// Example:
//
//	for chunk, err := range p.SendMessageStream(ctx, "Hello") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk)
//	}
type Stream = iter.Seq2[string, error]

// ErrorStream returns a stream that yields only err.
func ErrorStream(err error) Stream {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}

// Collect drains a stream and returns the concatenated text. On error the text
// received so far is returned together with the error.
func Collect(s Stream) (string, error) {
	var sb strings.Builder
	for chunk, err := range s {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
	return sb.String(), nil
}
