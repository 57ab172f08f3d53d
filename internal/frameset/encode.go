package frameset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes fs as a single line of JSON. HTML escaping is off so frames
// containing < > & stay byte-for-byte readable.
func Encode(w io.Writer, fs *FrameSet) error {
	out := *fs
	if out.Frames == nil {
		out.Frames = make([]string, 0)
	}
	out.TotalFrames = len(out.Frames)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("failed to encode frameset: %w", err)
	}

	// drop the encoder's trailing newline
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}
