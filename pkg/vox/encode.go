package vox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Version is the file format version written after the magic bytes.
const Version = 150

// Magic opens every file.
var Magic = [4]byte{'V', 'O', 'X', ' '}

// Encode writes the file header followed by main and its subtree to w in a
// single sequential pass. A failure part-way leaves w with a truncated file.
func Encode(w io.Writer, main *Chunk) error {
	if main == nil {
		return fmt.Errorf("encode: nil main chunk")
	}
	if main.Tag() != TagMain {
		return fmt.Errorf("encode: root chunk is %s, want %s", main.Tag(), TagMain)
	}

	var hdr [8]byte
	copy(hdr[0:4], Magic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], Version)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := main.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// Marshal encodes main into a byte slice.
func Marshal(main *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(8 + main.Size())
	if err := Encode(&buf, main); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
