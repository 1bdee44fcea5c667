// Package voice declares the speech boundary. Implementations live outside
// this service; the pipeline itself never touches audio, only the API layer
// does, and only when an implementation is wired in.
package voice

import (
	"context"
	"io"
)

// Transcriber converts captured audio into request text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Speaker renders response text as audio.
type Speaker interface {
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
}
