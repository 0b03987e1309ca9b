// Package imaging fingerprints and normalizes uploaded item photos.
//
// Photos arrive as base64 payloads, usually with a data-URL header. The
// fingerprint is an exact-content digest: bit-identical uploads collide,
// visually similar ones do not. This is deliberate — the duplicate detector
// only needs to catch the same photo attached to two reports.
package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 16

// AllowedMIME lists the input MIME types Normalize will re-encode.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Fingerprint derives a short content digest from an image payload.
// A data-URL header (everything up to the first comma) is stripped first.
// Undecodable payloads yield "" rather than an error, so a bad upload never
// fails the report it rides on.
func Fingerprint(payload string) string {
	data, err := decodePayload(payload)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}

// Normalize re-encodes an image payload as a bounded JPEG data URL: the
// body is decoded, downscaled to at most MaxDimension on the longer side,
// and re-encoded. Payloads that don't decode as JPEG or PNG are returned
// unchanged — normalization is best-effort and never fails the caller.
func Normalize(payload string) string {
	data, err := decodePayload(payload)
	if err != nil {
		return payload
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	if !AllowedMIME[http.DetectContentType(data)] {
		return payload
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return payload
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return payload
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// decodePayload strips an optional data-URL header and base64-decodes the rest.
func decodePayload(payload string) ([]byte, error) {
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	// Calculate new dimensions preserving aspect ratio.
	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
