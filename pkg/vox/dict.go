package vox

// Entry is one key/value pair of a [Dict].
type Entry struct {
	Key   string
	Value string
}

// Dict is an ordered attribute dictionary. Keys are not required to be
// unique; order is preserved on encode and decode.
type Dict []Entry

// Get returns the value of the first entry with key.
func (d Dict) Get(key string) (string, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// encodedLen returns the number of bytes d occupies in chunk content.
func (d Dict) encodedLen() int {
	n := 4
	for _, e := range d {
		n += 8 + len(e.Key) + len(e.Value)
	}
	return n
}
