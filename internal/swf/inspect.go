// SPDX-License-Identifier: MIT

// Package swf extracts the header and file attributes of a Flash movie
// without decoding its display list.
package swf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"
)

// Compression identifies the container variant from the signature.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZlib Compression = "zlib"
	CompressionLZMA Compression = "lzma"
)

const (
	tagEnd            = 0
	tagFileAttributes = 69

	flagUseNetwork    = 0x01
	flagActionScript3 = 0x08
	flagHasMetadata   = 0x10
	flagUseGPU        = 0x20
	flagUseDirectBlit = 0x40
)

// Rect is the movie stage in twips (1/20 pixel).
type Rect struct {
	XMin, XMax, YMin, YMax int32
}

// Width returns the stage width in pixels.
func (r Rect) Width() float64 { return float64(r.XMax-r.XMin) / 20 }

// Height returns the stage height in pixels.
func (r Rect) Height() float64 { return float64(r.YMax-r.YMin) / 20 }

// Info is what Inspect learns about a movie.
type Info struct {
	Signature     string      `json:"signature" yaml:"signature"`
	Compression   Compression `json:"compression" yaml:"compression"`
	Version       uint8       `json:"version" yaml:"version"`
	FileLength    uint32      `json:"file_length" yaml:"file_length"`
	FrameSize     Rect        `json:"frame_size" yaml:"frame_size"`
	FrameRate     float64     `json:"frame_rate" yaml:"frame_rate"`
	FrameCount    uint16      `json:"frame_count" yaml:"frame_count"`
	ActionScript3 bool        `json:"actionscript3" yaml:"actionscript3"`
	HasMetadata   bool        `json:"has_metadata" yaml:"has_metadata"`
	UseNetwork    bool        `json:"use_network" yaml:"use_network"`
	UseGPU        bool        `json:"use_gpu" yaml:"use_gpu"`
	UseDirectBlit bool        `json:"use_direct_blit" yaml:"use_direct_blit"`
	// HasFileAttributes is false for movies older than SWF 8, which are
	// then reported as ActionScript 1/2.
	HasFileAttributes bool `json:"has_file_attributes" yaml:"has_file_attributes"`
}

// InspectFile opens path and calls Inspect.
func InspectFile(path string) (Info, error) {
	// #nosec G304 -- movie paths come from the user's project
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open swf: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := Inspect(bufio.NewReader(f))
	if err != nil {
		return info, fmt.Errorf("inspect %s: %w", path, err)
	}
	return info, nil
}

// Inspect reads the movie header and walks tags up to FileAttributes.
func Inspect(r io.Reader) (Info, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Info{}, truncated(err)
	}

	info := Info{
		Signature:  string(hdr[:3]),
		Version:    hdr[3],
		FileLength: binary.LittleEndian.Uint32(hdr[4:]),
	}

	body, err := openBody(r, &info)
	if err != nil {
		return info, err
	}
	br := bufio.NewReader(body)

	if err := readMovieHeader(br, &info); err != nil {
		return info, err
	}
	if err := walkTags(br, &info); err != nil {
		return info, err
	}
	return info, nil
}

func openBody(r io.Reader, info *Info) (io.Reader, error) {
	switch info.Signature {
	case "FWS":
		info.Compression = CompressionNone
		return r, nil
	case "CWS":
		info.Compression = CompressionZlib
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open zlib body: %w", err)
		}
		return zr, nil
	case "ZWS":
		info.Compression = CompressionLZMA
		return openLZMA(r, info.FileLength)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, info.Signature)
	}
}

// openLZMA rewrites the SWF LZMA header (UI32 compressed length, 5 props
// bytes) into the classic .lzma header (5 props bytes, UI64 size).
func openLZMA(r io.Reader, fileLength uint32) (io.Reader, error) {
	var swfHdr [9]byte
	if _, err := io.ReadFull(r, swfHdr[:]); err != nil {
		return nil, truncated(err)
	}

	var classic [13]byte
	copy(classic[:5], swfHdr[4:9])
	size := uint64(0)
	if fileLength > 8 {
		size = uint64(fileLength - 8)
	}
	binary.LittleEndian.PutUint64(classic[5:], size)

	lr, err := lzma.NewReader(io.MultiReader(bytes.NewReader(classic[:]), r))
	if err != nil {
		return nil, fmt.Errorf("open lzma body: %w", err)
	}
	return lr, nil
}

func readMovieHeader(r io.Reader, info *Info) error {
	rect, err := readRect(r)
	if err != nil {
		return err
	}
	info.FrameSize = rect

	var tail [4]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return truncated(err)
	}
	info.FrameRate = float64(binary.LittleEndian.Uint16(tail[:2])) / 256
	info.FrameCount = binary.LittleEndian.Uint16(tail[2:])
	return nil
}

func readRect(r io.Reader) (Rect, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return Rect{}, truncated(err)
	}
	nbits := uint(first[0] >> 3)
	totalBits := 5 + 4*nbits
	buf := make([]byte, (totalBits+7)/8)
	buf[0] = first[0]
	if _, err := io.ReadFull(r, buf[1:]); err != nil {
		return Rect{}, truncated(err)
	}

	br := bitReader{buf: buf, pos: 5}
	return Rect{
		XMin: br.signed(nbits),
		XMax: br.signed(nbits),
		YMin: br.signed(nbits),
		YMax: br.signed(nbits),
	}, nil
}

func walkTags(r io.Reader, info *Info) error {
	var word [4]byte
	for {
		if _, err := io.ReadFull(r, word[:2]); err != nil {
			if errors.Is(err, io.EOF) {
				// Missing End tag; the header was readable so report what we have.
				return nil
			}
			return truncated(err)
		}
		code := binary.LittleEndian.Uint16(word[:2]) >> 6
		length := uint32(binary.LittleEndian.Uint16(word[:2]) & 0x3f)
		if length == 0x3f {
			if _, err := io.ReadFull(r, word[:]); err != nil {
				return truncated(err)
			}
			length = binary.LittleEndian.Uint32(word[:])
		}

		switch code {
		case tagEnd:
			return nil
		case tagFileAttributes:
			if length < 4 {
				return fmt.Errorf("%w: FileAttributes tag of %d bytes", ErrTruncated, length)
			}
			if _, err := io.ReadFull(r, word[:]); err != nil {
				return truncated(err)
			}
			flags := word[0]
			info.HasFileAttributes = true
			info.ActionScript3 = flags&flagActionScript3 != 0
			info.HasMetadata = flags&flagHasMetadata != 0
			info.UseNetwork = flags&flagUseNetwork != 0
			info.UseGPU = flags&flagUseGPU != 0
			info.UseDirectBlit = flags&flagUseDirectBlit != 0
			return nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
				return truncated(err)
			}
		}
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}

type bitReader struct {
	buf []byte
	pos uint
}

func (b *bitReader) unsigned(n uint) uint32 {
	var v uint32
	for i := uint(0); i < n; i++ {
		byteIdx := b.pos / 8
		bit := (b.buf[byteIdx] >> (7 - b.pos%8)) & 1
		v = v<<1 | uint32(bit)
		b.pos++
	}
	return v
}

func (b *bitReader) signed(n uint) int32 {
	if n == 0 {
		return 0
	}
	v := b.unsigned(n)
	if v&(1<<(n-1)) != 0 {
		v |= ^uint32(0) << n
	}
	return int32(v)
}
