/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// maxImageDim caps the longer edge of embedded images. Journal photos come
// straight off phone cameras; embedding them full size bloats the PDF.
const maxImageDim = 1024

// decodedImage is an attachment decoded and normalized for embedding.
// Kind is a gofpdf image type ("png" or "jpg").
type decodedImage struct {
	Kind string
	Data []byte
	W, H int
}

// decodeDataURL turns a "data:image/...;base64,..." attachment into raw
// image bytes plus its media subtype ("png", "jpeg", "webp", ...).
func decodeDataURL(s string) (subtype string, raw []byte, err error) {
	const prefix = "data:image/"
	if !strings.HasPrefix(s, prefix) {
		return "", nil, fmt.Errorf("not an image data url")
	}
	rest := s[len(prefix):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, fmt.Errorf("data url is not base64 encoded")
	}
	subtype = rest[:sep]
	raw, err = base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return subtype, raw, nil
}

// prepareImage decodes a data URL attachment into a form gofpdf can embed.
// PNG and JPEG pass through as-is when small enough; WebP and oversized
// images are decoded and re-encoded as PNG, downscaled to maxImageDim.
func prepareImage(dataURL string) (*decodedImage, error) {
	subtype, raw, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch subtype {
	case "png":
		img, err = png.Decode(bytes.NewReader(raw))
	case "jpeg", "jpg":
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case "webp":
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported image type: %s", subtype)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", subtype, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	needScale := w > maxImageDim || h > maxImageDim

	if !needScale && (subtype == "png" || subtype == "jpeg" || subtype == "jpg") {
		kind := "png"
		if subtype != "png" {
			kind = "jpg"
		}
		return &decodedImage{Kind: kind, Data: raw, W: w, H: h}, nil
	}

	if needScale {
		scale := float64(maxImageDim) / float64(w)
		if h > w {
			scale = float64(maxImageDim) / float64(h)
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
		img = dst
		w, h = dw, dh
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("re-encode image: %w", err)
	}
	return &decodedImage{Kind: "png", Data: buf.Bytes(), W: w, H: h}, nil
}
