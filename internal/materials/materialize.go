package materials

import (
	"bytes"
	"fmt"
	"io"
)

// materialize drains the resolver stream into a single contiguous buffer.
// The whole payload is held in memory, which bounds practical input size to
// available memory. No partial buffer is returned on a stream error.
func materialize(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("drain stream: %w", err)
	}
	return buf.Bytes(), nil
}
