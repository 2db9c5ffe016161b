// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rom splits an NES cartridge image into the header, the program
// region mapped at $8000 and the pattern (tile) region.
package rom

import (
	"errors"
	"fmt"
	"os"
)

// Errors
var (
	ErrTruncatedImage = errors.New("truncated image")
)

// Image layout
const (
	HeaderSize  = 16
	ProgramSize = 0x8000 // $8000-$FFFF, including the interrupt vectors
	PatternSize = 0x2000
	MinimumSize = HeaderSize + ProgramSize
)

// A TruncatedImageError is returned when an image is too short to cover
// the program address space up to the interrupt vectors.
type TruncatedImageError struct {
	Length   int // length of the image
	Required int // minimum acceptable length
}

func (e *TruncatedImageError) Error() string {
	return fmt.Sprintf("%v: %d bytes, need at least %d", ErrTruncatedImage, e.Length, e.Required)
}

func (e *TruncatedImageError) Unwrap() error {
	return ErrTruncatedImage
}

// An Image is a cartridge image split into its regions. The slices alias
// the original image.
type Image struct {
	Header  []byte // first 16 bytes, kept but not interpreted
	Program []byte // everything after the header, mapped at $8000
	Pattern []byte // up to 8K of tile data following the program region
}

// Split divides an image into its regions. The program region runs to the
// end of the image; only its first 32K are visible on the CPU bus.
func Split(image []byte) (*Image, error) {
	if len(image) < MinimumSize {
		return nil, &TruncatedImageError{Length: len(image), Required: MinimumSize}
	}

	img := &Image{
		Header:  image[:HeaderSize],
		Program: image[HeaderSize:],
	}

	end := min(len(image), MinimumSize+PatternSize)
	img.Pattern = image[MinimumSize:end]
	return img, nil
}

// ReadFile reads and splits the image stored in a file.
func ReadFile(filename string) (*Image, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Split(b)
}

// Vector returns the 16-bit little-endian value stored at the CPU address
// 'addr' within the program region.
func (img *Image) Vector(addr uint16) uint16 {
	i := int(addr) - 0x8000
	if i < 0 || i+1 >= len(img.Program) {
		return 0
	}
	return uint16(img.Program[i]) | uint16(img.Program[i+1])<<8
}
