package container

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic is the container's fixed magic string
const Magic = "QUADMIND"

// Header holds the fixed-width fields preceding the two sections.
type Header struct {
	Width, Height                                  uint32
	Quality                                        float32
	UseYCbCr, UseThreads, UseFastDCT, UseGenQTable bool
}

// File is the full in-memory representation of a QuadMind container.
type File struct {
	Header   Header
	Geometry *Section // SQNJ
	Coeffs   *Section // SDCT
}

// GeometryEntry describes one leaf's position and block size, as stored in
// the SQNJ geometry payload.
type GeometryEntry struct {
	X, Y          uint32
	BlockSizeLog2 uint8
}

// Write serializes a File to w: magic, header fields, then the two
// sections in order.
func Write(w io.Writer, f *File) error {
	if err := writeString(w, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, f.Header.Width); err != nil {
		return fmt.Errorf("writing width: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, f.Header.Height); err != nil {
		return fmt.Errorf("writing height: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, f.Header.Quality); err != nil {
		return fmt.Errorf("writing quality: %w", err)
	}
	flags := []bool{f.Header.UseYCbCr, f.Header.UseThreads, f.Header.UseFastDCT, f.Header.UseGenQTable}
	for _, v := range flags {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("writing flag: %w", err)
		}
	}

	if err := f.Geometry.WriteTo(w); err != nil {
		return fmt.Errorf("writing SQNJ section: %w", err)
	}
	if err := f.Coeffs.WriteTo(w); err != nil {
		return fmt.Errorf("writing SDCT section: %w", err)
	}
	return nil
}

// Read deserializes a File from r, validating the magic and both
// sections' markers (but not yet their digests — see VerifySection).
func Read(r io.Reader) (*File, error) {
	magic, err := readString(r)
	if err != nil {
		return nil, &MalformedError{Op: "reading magic", Err: err}
	}
	if magic != Magic {
		return nil, errSignatureMismatch(Magic, magic)
	}

	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h.Width); err != nil {
		return nil, &MalformedError{Op: "reading width", Err: err}
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Height); err != nil {
		return nil, &MalformedError{Op: "reading height", Err: err}
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Quality); err != nil {
		return nil, &MalformedError{Op: "reading quality", Err: err}
	}
	flags := []*bool{&h.UseYCbCr, &h.UseThreads, &h.UseFastDCT, &h.UseGenQTable}
	for _, f := range flags {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, &MalformedError{Op: "reading flag", Err: err}
		}
	}

	geom, err := ReadSection(r, MarkerSQNJStart, MarkerSQNJEnd)
	if err != nil {
		return nil, err
	}
	coeffs, err := ReadSection(r, MarkerSDCTStart, MarkerSDCTEnd)
	if err != nil {
		return nil, err
	}

	return &File{Header: h, Geometry: geom, Coeffs: coeffs}, nil
}

// VerifySection inflates a section and checks its digest, returning the
// uncompressed payload on success. Distinguishes ContainerMalformed
// (inflate failure) from ContainerIntegrityMismatch (digest mismatch).
func VerifySection(s *Section) ([]byte, error) {
	data, err := s.Inflate()
	if err != nil {
		return nil, &MalformedError{Op: "inflate " + s.StartMarker, Err: err}
	}
	if !s.VerifyDigest(data) {
		return nil, &IntegrityMismatchError{Section: s.StartMarker}
	}
	return data, nil
}

// EncodeGeometry packs a leaf geometry list into the SQNJ uncompressed
// payload layout
func EncodeGeometry(entries []GeometryEntry) []byte {
	buf := make([]byte, 0, len(entries)*9)
	for _, e := range entries {
		var tmp [9]byte
		binary.LittleEndian.PutUint32(tmp[0:4], e.X)
		binary.LittleEndian.PutUint32(tmp[4:8], e.Y)
		tmp[8] = e.BlockSizeLog2
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// DecodeGeometry unpacks an SQNJ payload into a leaf geometry list. The
// leaf count is inferred from the payload length
func DecodeGeometry(data []byte) ([]GeometryEntry, error) {
	const entrySize = 9
	if len(data)%entrySize != 0 {
		return nil, &MalformedError{Op: "decode geometry", Err: fmt.Errorf("payload length %d not a multiple of %d", len(data), entrySize)}
	}
	n := len(data) / entrySize
	entries := make([]GeometryEntry, n)
	for i := 0; i < n; i++ {
		off := i * entrySize
		entries[i] = GeometryEntry{
			X:             binary.LittleEndian.Uint32(data[off : off+4]),
			Y:             binary.LittleEndian.Uint32(data[off+4 : off+8]),
			BlockSizeLog2: data[off+8],
		}
	}
	return entries, nil
}

// EncodeCoefficients packs, per leaf, three planes of N*N int32
// coefficients (luma, chroma, chroma order) into the SDCT uncompressed
// payload
func EncodeCoefficients(perLeaf [][3][]int32) []byte {
	total := 0
	for _, planes := range perLeaf {
		for _, p := range planes {
			total += len(p)
		}
	}
	buf := make([]byte, total*4)
	off := 0
	for _, planes := range perLeaf {
		for _, p := range planes {
			for _, v := range p {
				binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v))
				off += 4
			}
		}
	}
	return buf
}

// DecodeCoefficients unpacks an SDCT payload into a per-leaf, per-plane
// int32 slice, given the block size (N) of each leaf in order (derived
// from the matching geometry entries' BlockSizeLog2).
func DecodeCoefficients(data []byte, blockSizes []int) ([][3][]int32, error) {
	if len(data)%4 != 0 {
		return nil, &MalformedError{Op: "decode coefficients", Err: fmt.Errorf("payload length %d not a multiple of 4", len(data))}
	}
	flat := make([]int32, len(data)/4)
	for i := range flat {
		flat[i] = int32(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}

	result := make([][3][]int32, len(blockSizes))
	pos := 0
	for i, n := range blockSizes {
		n2 := n * n
		for p := 0; p < 3; p++ {
			if pos+n2 > len(flat) {
				return nil, &MalformedError{Op: "decode coefficients", Err: fmt.Errorf("coefficient stream too short for leaf %d", i)}
			}
			result[i][p] = flat[pos : pos+n2]
			pos += n2
		}
	}
	if pos != len(flat) {
		return nil, &MalformedError{Op: "decode coefficients", Err: fmt.Errorf("coefficient stream has %d trailing values", len(flat)-pos)}
	}
	return result, nil
}
