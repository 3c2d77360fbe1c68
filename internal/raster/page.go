// Package raster holds decoded shop-drawing page images. Pages arrive
// either as bytes from the render service or, in offline mode, straight
// from disk.
package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Page is one rasterized drawing page.
type Page struct {
	Source string      // file path or render request id
	Image  image.Image // decoded pixel data
	DPI    float64     // rasterization density, 0 when unknown
}

// Decode builds a Page from raw image bytes, typically fetched from the
// render service. dpi is the density the page was rasterized at.
func Decode(source string, data []byte, dpi float64) (*Page, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}
	return &Page{Source: source, Image: img, DPI: dpi}, nil
}

// LoadFile loads a page image from disk for offline use. TIFF files
// carry their density in metadata; other formats leave DPI at zero.
func LoadFile(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	p := &Page{Source: path, Image: img}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			if dpi, err := readTIFFDPI(file); err == nil {
				p.DPI = dpi
			}
		}
	}
	return p, nil
}

// Width returns the page width in pixels.
func (p *Page) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the page height in pixels.
func (p *Page) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// Size returns the page dimensions in pixels.
func (p *Page) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(p.Width()),
		Height: float64(p.Height()),
	}
}

// WidthInches returns the physical page width if DPI is known.
func (p *Page) WidthInches() float64 {
	if p.DPI == 0 {
		return 0
	}
	return float64(p.Width()) / p.DPI
}

// HeightInches returns the physical page height if DPI is known.
func (p *Page) HeightInches() float64 {
	if p.DPI == 0 {
		return 0
	}
	return float64(p.Height()) / p.DPI
}

// SupportedFormats returns the file extensions accepted in offline mode.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// readTIFFDPI pulls the resolution tags out of a TIFF header.
func readTIFFDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		byteOrder = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := r.Seek(int64(ifdOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(r, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // inches

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 { // RATIONAL
				xRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 {
				yRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 { // SHORT
				resUnit = uint16(valueOffset)
			}
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if resUnit == 3 { // pixels per centimeter
		dpi *= 2.54
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}
	return dpi, nil
}

func readTIFFRational(r io.ReadSeeker, offset int64, byteOrder binary.ByteOrder) float64 {
	pos, _ := r.Seek(0, io.SeekCurrent)
	defer r.Seek(pos, io.SeekStart)

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0
	}
	var num, denom uint32
	binary.Read(r, byteOrder, &num)
	binary.Read(r, byteOrder, &denom)

	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
