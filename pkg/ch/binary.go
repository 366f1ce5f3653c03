package ch

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"seaways/pkg/graph"
)

const (
	chMagicBytes = "SEACHMTA"
	chVersion    = uint32(1)
)

type chFileHeader struct {
	Magic          [8]byte
	Version        uint32
	NumShortcutKeys uint32
}

// WriteMetadata serializes m to path: the augmented graph followed by the
// shortcuts_by_source map, with an atomic create-temp-then-rename and a
// CRC32 trailer, matching the plain graph codec's framing.
func WriteMetadata(path string, m *Metadata) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	hdr := chFileHeader{Version: chVersion, NumShortcutKeys: uint32(len(m.ShortcutsBySource))}
	copy(hdr.Magic[:], chMagicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := graph.EncodeBody(cw, m.Graph); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	if err := writeShortcuts(cw, m.ShortcutsBySource); err != nil {
		return fmt.Errorf("write shortcuts: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// ReadMetadata deserializes CH metadata from path, validating the CRC32
// trailer and the underlying graph's CSR invariants.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr chFileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != chMagicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != chVersion {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}

	g, err := graph.DecodeBody(cr)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	shortcuts, err := readShortcuts(cr, int(hdr.NumShortcutKeys))
	if err != nil {
		return nil, fmt.Errorf("read shortcuts: %w", err)
	}

	expectedCRC := cr.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	return &Metadata{Graph: g, ShortcutsBySource: shortcuts}, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}

func writeShortcuts(cw *crc32Writer, shortcuts map[uint32][]Shortcut) error {
	for source, scs := range shortcuts {
		if err := binary.Write(cw, binary.LittleEndian, source); err != nil {
			return err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(scs))); err != nil {
			return err
		}
		for _, sc := range scs {
			if err := binary.Write(cw, binary.LittleEndian, sc.Target); err != nil {
				return err
			}
			if err := binary.Write(cw, binary.LittleEndian, sc.Dist); err != nil {
				return err
			}
			if err := binary.Write(cw, binary.LittleEndian, uint32(len(sc.ReplacedEdges))); err != nil {
				return err
			}
			for _, n := range sc.ReplacedEdges {
				if err := binary.Write(cw, binary.LittleEndian, n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func readShortcuts(cr *crc32Reader, numKeys int) (map[uint32][]Shortcut, error) {
	shortcuts := make(map[uint32][]Shortcut, numKeys)
	for i := 0; i < numKeys; i++ {
		var source, numShortcuts uint32
		if err := binary.Read(cr, binary.LittleEndian, &source); err != nil {
			return nil, err
		}
		if err := binary.Read(cr, binary.LittleEndian, &numShortcuts); err != nil {
			return nil, err
		}
		scs := make([]Shortcut, numShortcuts)
		for j := range scs {
			if err := binary.Read(cr, binary.LittleEndian, &scs[j].Target); err != nil {
				return nil, err
			}
			if err := binary.Read(cr, binary.LittleEndian, &scs[j].Dist); err != nil {
				return nil, err
			}
			var numReplaced uint32
			if err := binary.Read(cr, binary.LittleEndian, &numReplaced); err != nil {
				return nil, err
			}
			scs[j].ReplacedEdges = make([]uint32, numReplaced)
			for k := range scs[j].ReplacedEdges {
				if err := binary.Read(cr, binary.LittleEndian, &scs[j].ReplacedEdges[k]); err != nil {
					return nil, err
				}
			}
		}
		shortcuts[source] = scs
	}
	return shortcuts, nil
}
