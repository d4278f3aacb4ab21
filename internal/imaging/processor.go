// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates and normalizes session images supplied as
// base64 data URIs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxImageBytes caps the decoded size of a session image.
const MaxImageBytes = 2 << 20 // 2 MiB

// ErrImageTooLarge is returned when the decoded image exceeds MaxImageBytes.
var ErrImageTooLarge = errors.New("image exceeds maximum size")

// ErrUnsupportedFormat is returned for formats other than JPEG/PNG/GIF/WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// NormalizeDataURI validates a base64 image data URI and returns a cleaned
// replacement: decoded, EXIF-rotated, re-encoded without metadata. WebP input
// is re-encoded as JPEG since pure Go cannot encode WebP.
func NormalizeDataURI(dataURI string) (string, error) {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	format := detectFormat(data)
	if format == "" {
		return "", ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	processed, outFormat, err := encodeImage(img, format, 90)
	if err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	if len(processed) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	return "data:" + formatToMimeType(outFormat) + ";base64," +
		base64.StdEncoding.EncodeToString(processed), nil
}

// decodeDataURI extracts and decodes the base64 payload of an image data URI.
func decodeDataURI(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return nil, fmt.Errorf("not an image data URI")
	}
	idx := strings.Index(dataURI, ";base64,")
	if idx == -1 {
		return nil, fmt.Errorf("missing base64 payload")
	}
	payload := dataURI[idx+len(";base64,"):]

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return data, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the specified format and quality,
// returning the bytes and the format actually used.
func encodeImage(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "gif", nil
	default:
		// JPEG, plus WebP which pure Go cannot encode
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
