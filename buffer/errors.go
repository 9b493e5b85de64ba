// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package buffer

import "errors"

var (
	// ErrInvalidDimensions reports a zero or overflowing width/height.
	ErrInvalidDimensions = errors.New("buffer: invalid dimensions")
	// ErrIndexOutOfRange reports a cell or selection index beyond length.
	ErrIndexOutOfRange = errors.New("buffer: index out of range")
	// ErrUnsupportedFormat reports an unknown raster format tag.
	ErrUnsupportedFormat = errors.New("buffer: unsupported pixel format")
	// ErrBufferTooSmall reports a payload shorter than its geometry implies.
	ErrBufferTooSmall = errors.New("buffer: payload too small for geometry")
)
