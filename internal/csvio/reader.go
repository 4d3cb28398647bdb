package csvio

import (
	"bufio"
	"io"
)

// BOMSkippingReader wraps an io.Reader and drops a leading UTF-8 BOM
// (0xEF 0xBB 0xBF), which Windows spreadsheet exports routinely prepend.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a BOM-skipping reader over r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. The BOM check runs once, on the first call.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		if lead, err := r.br.Peek(3); err == nil &&
			lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
			r.br.Discard(3)
		}
	}
	return r.br.Read(p)
}
