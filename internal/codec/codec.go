// Package codec persists file-stub metadata as a compact binary
// record, so a file's container identity can be reconstructed from
// storage without re-parsing the source.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"stubdex/internal/name"
	"stubdex/internal/stub"
)

// maxStringLen bounds string fields in the stream. A longer length
// prefix can only come from a corrupt record.
const maxStringLen = 1 << 20

// WriteFileStub serializes the persisted fields of a file stub, in
// fixed order: package name, script flag, facade simple name, part
// simple name.
func WriteFileStub(w io.Writer, fs *stub.FileStub) error {
	if err := writeString(w, fs.PackageFqName.String()); err != nil {
		return fmt.Errorf("write package name: %w", err)
	}
	if err := writeBool(w, fs.Script); err != nil {
		return fmt.Errorf("write script flag: %w", err)
	}
	if err := writeNullableString(w, fs.FacadeSimpleName); err != nil {
		return fmt.Errorf("write facade name: %w", err)
	}
	if err := writeNullableString(w, fs.PartSimpleName); err != nil {
		return fmt.Errorf("write part name: %w", err)
	}
	return nil
}

// ReadFileStub reconstructs a file stub from a stream produced by
// WriteFileStub. The result carries no source back-reference. A
// truncated or corrupt stream yields an error; there is no partial
// recovery.
func ReadFileStub(r io.Reader) (*stub.FileStub, error) {
	pkg, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("read package name: %w", err)
	}
	script, err := readBool(r)
	if err != nil {
		return nil, fmt.Errorf("read script flag: %w", err)
	}
	facade, err := readNullableString(r)
	if err != nil {
		return nil, fmt.Errorf("read facade name: %w", err)
	}
	part, err := readNullableString(r)
	if err != nil {
		return nil, fmt.Errorf("read part name: %w", err)
	}
	return stub.NewFileStub(name.New(pkg), script, facade, part, nil), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBool(w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean byte 0x%02x", b[0])
}

func writeNullableString(w io.Writer, s *string) error {
	if s == nil {
		return writeBool(w, false)
	}
	if err := writeBool(w, true); err != nil {
		return err
	}
	return writeString(w, *s)
}

func readNullableString(r io.Reader) (*string, error) {
	present, err := readBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	s, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
