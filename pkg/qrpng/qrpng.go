// Package qrpng turns a URL string into PNG bytes for the QR endpoints.
package qrpng

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Encoder renders a URL string as a QR code PNG.
type Encoder struct {
	size int
}

// New returns an Encoder rendering images of the given pixel size.
// A non-positive size falls back to the default.
func New(size int) *Encoder {
	if size <= 0 {
		size = defaultSize
	}
	return &Encoder{size: size}
}

// Encode returns the PNG bytes of a QR code pointing at url.
func (e *Encoder) Encode(url string) ([]byte, error) {
	const op = "qrpng.Encoder.Encode"

	png, err := qrcode.Encode(url, qrcode.Low, e.size)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode qr code: %w", op, err)
	}

	return png, nil
}
