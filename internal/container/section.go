// Package container implements the QuadMind file format: a
// signed header followed by two named, sha512-checksummed, deflate-
// compressed sections with start/end markers.
//
// The read/write shape here follows a classic length-prefixed box/chunk
// layout (Box/Reader.ReadBox/Writer.WriteBox), generalized from fourCC-style
// boxes to QuadMind's string-marker sections.
package container

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Section names
const (
	MarkerSQNJStart = "SQNJ"
	MarkerSQNJEnd   = "EQNJ"
	MarkerSDCTStart = "SDCT"
	MarkerSDCTEnd   = "EDCT"
)

// Section is one named, checksummed, compressed region of the container.
type Section struct {
	StartMarker string
	Digest      [64]byte
	Payload     []byte // deflate-compressed
	EndMarker   string
}

// NewSection compresses uncompressed and builds a Section with the given
// markers, computing the sha512 digest over the uncompressed payload.
func NewSection(startMarker, endMarker string, uncompressed []byte) (*Section, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating deflate writer: %w", err)
	}
	if _, err := w.Write(uncompressed); err != nil {
		return nil, fmt.Errorf("compressing section %s: %w", startMarker, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing deflate writer for %s: %w", startMarker, err)
	}

	return &Section{
		StartMarker: startMarker,
		Digest:      sha512.Sum512(uncompressed),
		Payload:     buf.Bytes(),
		EndMarker:   endMarker,
	}, nil
}

// WriteTo serializes the section to w: length-prefixed start marker,
// 64-byte digest, length-prefixed payload, length-prefixed end marker.
func (s *Section) WriteTo(w io.Writer) error {
	if err := writeString(w, s.StartMarker); err != nil {
		return err
	}
	if _, err := w.Write(s.Digest[:]); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}
	if err := writeBytes(w, s.Payload); err != nil {
		return err
	}
	return writeString(w, s.EndMarker)
}

// ReadSection deserializes one section from r, validating the expected
// start/end markers. It does NOT inflate or verify the digest; callers do
// that with Inflate/VerifyDigest so integrity and signature failures can
// be distinguished .
func ReadSection(r io.Reader, expectStart, expectEnd string) (*Section, error) {
	start, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("reading section start marker: %w", err)
	}
	if start != expectStart {
		return nil, errSignatureMismatch(expectStart, start)
	}

	var digest [64]byte
	if _, err := io.ReadFull(r, digest[:]); err != nil {
		return nil, fmt.Errorf("reading section digest: %w", err)
	}

	payload, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("reading section payload: %w", err)
	}

	end, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("reading section end marker: %w", err)
	}
	if end != expectEnd {
		return nil, errSignatureMismatch(expectEnd, end)
	}

	return &Section{StartMarker: start, Digest: digest, Payload: payload, EndMarker: end}, nil
}

// Inflate decompresses the section payload.
func (s *Section) Inflate() ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(s.Payload))
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflating section %s: %w", s.StartMarker, err)
	}
	return data, nil
}

// VerifyDigest checks that sha512(uncompressed) matches the section's
// stored digest.
func (s *Section) VerifyDigest(uncompressed []byte) bool {
	return sha512.Sum512(uncompressed) == s.Digest
}

func writeString(w io.Writer, s string) error {
	return writeBytes(w, []byte(s))
}

func readString(r io.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return fmt.Errorf("writing length prefix: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing bytes: %w", err)
	}
	return nil
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("reading length prefix: %w", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("reading bytes: %w", err)
	}
	return b, nil
}
