package x86

import "fmt"

// Cursor reads bytes of a program image sequentially.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at offset pos of data.
func NewCursor(data []byte, pos int) *Cursor {
	return &Cursor{data: data, pos: pos}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}
	return len(c.data) - c.pos
}

// Peek returns the byte at the current offset without consuming it.
func (c *Cursor) Peek() (byte, error) {
	return c.PeekAt(0)
}

// PeekAt returns the byte n positions after the current offset without consuming it.
func (c *Cursor) PeekAt(n int) (byte, error) {
	if n < 0 || n >= c.Remaining() {
		return 0, fmt.Errorf("%w: need %d bytes, %d available", ErrTruncatedInstruction, n+1, c.Remaining())
	}
	return c.data[c.pos+n], nil
}

// Read consumes the next n bytes.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes, %d available", ErrTruncatedInstruction, n, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}
