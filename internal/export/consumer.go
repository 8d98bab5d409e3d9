package export

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONLConsumer writes one JSON object per frame, the interchange format
// the rendering surface reads. Output is buffered; Close flushes.
type JSONLConsumer struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLConsumer wraps w in a frame-per-line JSON stream.
func NewJSONLConsumer(w io.Writer) *JSONLConsumer {
	bw := bufio.NewWriter(w)
	return &JSONLConsumer{w: bw, enc: json.NewEncoder(bw)}
}

func (c *JSONLConsumer) Consume(frame RenderedFrame) error {
	return c.enc.Encode(frame)
}

func (c *JSONLConsumer) Close() error {
	return c.w.Flush()
}
