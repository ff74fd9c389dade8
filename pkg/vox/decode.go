package vox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// File is a decoded container.
type File struct {
	Version int
	Main    *Chunk
}

// Decode reads a whole file from r. Every chunk's declared content and
// children lengths must match the bytes present, and nothing may follow the
// MAIN chunk.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a file held in memory. See [Decode].
func Unmarshal(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("decode: file too short (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, fmt.Errorf("decode: bad magic %q", data[:4])
	}
	version := int(int32(binary.LittleEndian.Uint32(data[4:8])))

	main, n, err := parseChunk(data[8:])
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if main.Tag() != TagMain {
		return nil, fmt.Errorf("decode: first chunk is %s, want %s", main.Tag(), TagMain)
	}
	if rest := len(data) - 8 - n; rest != 0 {
		return nil, fmt.Errorf("decode: %d trailing bytes after %s", rest, TagMain)
	}
	return &File{Version: version, Main: main}, nil
}

// parseChunk decodes one chunk and its subtree from the front of b and
// returns the number of bytes consumed.
func parseChunk(b []byte) (*Chunk, int, error) {
	if len(b) < HeaderSize {
		return nil, 0, fmt.Errorf("chunk header truncated (%d bytes left)", len(b))
	}
	var tag Tag
	copy(tag[:], b[0:4])
	contentLen := int(binary.LittleEndian.Uint32(b[4:8]))
	childrenLen := int(binary.LittleEndian.Uint32(b[8:12]))

	body := b[HeaderSize:]
	if contentLen < 0 || contentLen > len(body) {
		return nil, 0, fmt.Errorf("%s: content length %d exceeds %d available bytes", tag, contentLen, len(body))
	}
	if childrenLen < 0 || childrenLen > len(body)-contentLen {
		return nil, 0, fmt.Errorf("%s: children length %d exceeds %d available bytes", tag, childrenLen, len(body)-contentLen)
	}

	c := &Chunk{tag: tag, content: bytes.Clone(body[:contentLen])}
	rest := body[contentLen : contentLen+childrenLen]
	for len(rest) > 0 {
		child, n, err := parseChunk(rest)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", tag, err)
		}
		c.children = append(c.children, child)
		rest = rest[n:]
	}
	return c, HeaderSize + contentLen + childrenLen, nil
}

// contentReader decodes the fields of a chunk's content.
type contentReader struct {
	tag Tag
	b   []byte
	off int
}

func newContentReader(c *Chunk) *contentReader {
	return &contentReader{tag: c.tag, b: c.content}
}

func (r *contentReader) readInt32() (int32, error) {
	if len(r.b)-r.off < 4 {
		return 0, fmt.Errorf("%s: int32 at offset %d: %w", r.tag, r.off, io.ErrUnexpectedEOF)
	}
	v := int32(binary.LittleEndian.Uint32(r.b[r.off:]))
	r.off += 4
	return v, nil
}

func (r *contentReader) readInt() (int, error) {
	v, err := r.readInt32()
	return int(v), err
}

func (r *contentReader) readBytes(n int) ([]byte, error) {
	if n < 0 || len(r.b)-r.off < n {
		return nil, fmt.Errorf("%s: %d bytes at offset %d: %w", r.tag, n, r.off, io.ErrUnexpectedEOF)
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *contentReader) readString() (string, error) {
	n, err := r.readInt()
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *contentReader) readDict() (Dict, error) {
	n, err := r.readInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > (len(r.b)-r.off)/8 {
		return nil, fmt.Errorf("%s: dictionary of %d entries at offset %d does not fit", r.tag, n, r.off)
	}
	var d Dict
	for i := 0; i < n; i++ {
		k, err := r.readString()
		if err != nil {
			return nil, err
		}
		v, err := r.readString()
		if err != nil {
			return nil, err
		}
		d = append(d, Entry{Key: k, Value: v})
	}
	return d, nil
}

func (r *contentReader) done() error {
	if r.off != len(r.b) {
		return fmt.Errorf("%s: %d unread content bytes", r.tag, len(r.b)-r.off)
	}
	return nil
}
