package hash

import (
	"encoding/binary"
	"io"
)

// WriterToWithDomain is implemented by types able to write themselves into a
// Hash, under a domain unique to the type.
//
// Implementations must write an encoding that is unambiguous on its own,
// since only the domain is framed by the Hash.
type WriterToWithDomain interface {
	io.WriterTo
	Domain() string
}

// writeLength writes x as an unsigned varint.
func writeLength(w io.Writer, x int) (int64, error) {
	var buf [binary.MaxVarintLen64]byte
	n, err := w.Write(buf[:binary.PutUvarint(buf[:], uint64(x))])
	return int64(n), err
}

// writeWithDomain writes the length prefixed domain of object, followed by
// the object itself.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	domain := object.Domain()
	if _, err := writeLength(w, len(domain)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, domain); err != nil {
		return err
	}
	_, err := object.WriteTo(w)
	return err
}

// frame is a length prefixed chunk of bytes.
type frame struct {
	domain string
	data   []byte
}

func (f frame) WriteTo(w io.Writer) (int64, error) {
	n, err := writeLength(w, len(f.data))
	if err != nil {
		return n, err
	}
	m, err := w.Write(f.data)
	return n + int64(m), err
}

func (f frame) Domain() string {
	return f.domain
}
