package weldmark

import (
	"fmt"
	"strings"
)

// Quality thresholds for QC photo documentation.
const (
	// MinMegapixels is the minimum acceptable resolution.
	MinMegapixels = 2.0

	// MaxFileSize is the maximum accepted image file size (10 MiB).
	MaxFileSize = 10 * 1024 * 1024

	// MinDPI is the minimum print density, checked only when reported.
	MinDPI = 72
)

// AcceptedImageFormats lists the image formats accepted for QC documentation.
// Comparison is case-insensitive.
var AcceptedImageFormats = []string{"JPEG", "JPG", "PNG", "TIFF", "TIF"}

// AcceptedColorSpaces lists the color spaces accepted for QC documentation.
// Comparison is case-sensitive.
var AcceptedColorSpaces = []string{"RGB", "sRGB", "Adobe RGB"}

// ValidateQuality checks photo metadata against the QC thresholds and returns
// one human-readable message per failed check. Every check runs regardless of
// earlier failures, so a single call reports all violations at once. An empty
// result means the metadata meets the quality standard.
func ValidateQuality(m PhotoMetadata) []string {
	var violations []string

	if mp := m.Megapixels(); mp < MinMegapixels {
		violations = append(violations, fmt.Sprintf(
			"resolution %.2f megapixels is below the minimum of %.1f megapixels", mp, MinMegapixels))
	}

	if m.FileSize > MaxFileSize {
		violations = append(violations, fmt.Sprintf(
			"file size %d bytes exceeds the maximum of %d bytes", m.FileSize, int64(MaxFileSize)))
	}

	if m.DPI != nil && *m.DPI < MinDPI {
		violations = append(violations, fmt.Sprintf(
			"density %d DPI is below the minimum of %d DPI", *m.DPI, MinDPI))
	}

	if !isAcceptedImageFormat(m.ImageFormat) {
		violations = append(violations, fmt.Sprintf(
			"image format %q is not accepted; accepted formats are %s",
			m.ImageFormat, strings.Join(AcceptedImageFormats, ", ")))
	}

	if !isAcceptedColorSpace(m.ColorSpace) {
		violations = append(violations, fmt.Sprintf(
			"color space %q is not accepted; accepted color spaces are %s",
			m.ColorSpace, strings.Join(AcceptedColorSpaces, ", ")))
	}

	return violations
}

// MeetsQualityStandard reports whether the metadata passes every QC check.
func MeetsQualityStandard(m PhotoMetadata) bool {
	return len(ValidateQuality(m)) == 0
}

func isAcceptedImageFormat(format string) bool {
	for _, f := range AcceptedImageFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

func isAcceptedColorSpace(space string) bool {
	for _, s := range AcceptedColorSpaces {
		if s == space {
			return true
		}
	}
	return false
}
