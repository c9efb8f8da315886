package weldmark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func mustMetadata(t *testing.T, width, height int, fileSize int64, format, colorSpace string, dpi *int) PhotoMetadata {
	t.Helper()
	m, err := NewPhotoMetadata(width, height, fileSize, format, colorSpace, dpi)
	require.NoError(t, err)
	return m
}

func TestNewPhotoMetadata(t *testing.T) {
	t.Run("ValidFields", func(t *testing.T) {
		m, err := NewPhotoMetadata(1920, 1080, 3*1024*1024, "JPEG", "sRGB", intPtr(150))
		require.NoError(t, err)
		assert.Equal(t, 1920, m.Width)
		assert.Equal(t, "1920x1080", m.Resolution())
		assert.InDelta(t, 2.0736, m.Megapixels(), 0.0001)
		assert.InDelta(t, 16.0/9.0, m.AspectRatio(), 0.0001)
	})

	t.Run("OptionalDPI", func(t *testing.T) {
		m, err := NewPhotoMetadata(2000, 1500, 1024, "PNG", "RGB", nil)
		require.NoError(t, err)
		assert.Nil(t, m.DPI)
	})

	t.Run("InvalidFields", func(t *testing.T) {
		tests := []struct {
			name   string
			width  int
			height int
			size   int64
			format string
			space  string
			dpi    *int
			field  string
		}{
			{"ZeroWidth", 0, 1080, 1024, "JPEG", "sRGB", nil, "width"},
			{"NegativeHeight", 1920, -1, 1024, "JPEG", "sRGB", nil, "height"},
			{"ZeroFileSize", 1920, 1080, 0, "JPEG", "sRGB", nil, "fileSize"},
			{"BlankFormat", 1920, 1080, 1024, "", "sRGB", nil, "imageFormat"},
			{"BlankColorSpace", 1920, 1080, 1024, "JPEG", "", nil, "colorSpace"},
			{"ZeroDPI", 1920, 1080, 1024, "JPEG", "sRGB", intPtr(0), "dpi"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewPhotoMetadata(tt.width, tt.height, tt.size, tt.format, tt.space, tt.dpi)
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
				assert.Contains(t, ErrorFields(err), tt.field)
			})
		}
	})
}

func TestValidateQuality_Resolution(t *testing.T) {
	// 0.48 MP, well below threshold
	low := mustMetadata(t, 800, 600, 1024, "JPEG", "sRGB", nil)
	violations := ValidateQuality(low)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "megapixels")

	// Exactly 2.0 MP passes
	exact := mustMetadata(t, 2000, 1000, 1024, "JPEG", "sRGB", nil)
	assert.Empty(t, ValidateQuality(exact))
}

func TestValidateQuality_FileSize(t *testing.T) {
	// Exactly at the 10 MiB ceiling passes
	atLimit := mustMetadata(t, 2000, 1500, 10*1024*1024, "JPEG", "sRGB", nil)
	assert.Empty(t, ValidateQuality(atLimit))

	// One byte over fails
	over := mustMetadata(t, 2000, 1500, 10*1024*1024+1, "JPEG", "sRGB", nil)
	violations := ValidateQuality(over)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "file size")
	assert.Contains(t, violations[0], "10485760")
}

func TestValidateQuality_DPI(t *testing.T) {
	// DPI below minimum fails
	low := mustMetadata(t, 2000, 1500, 1024, "JPEG", "sRGB", intPtr(71))
	violations := ValidateQuality(low)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "DPI")

	// Absent DPI never produces a DPI violation
	absent := mustMetadata(t, 2000, 1500, 1024, "JPEG", "sRGB", nil)
	for _, v := range ValidateQuality(absent) {
		assert.NotContains(t, v, "DPI")
	}

	// Exactly at the minimum passes
	atMin := mustMetadata(t, 2000, 1500, 1024, "JPEG", "sRGB", intPtr(72))
	assert.Empty(t, ValidateQuality(atMin))
}

func TestValidateQuality_Format(t *testing.T) {
	tests := []struct {
		format string
		ok     bool
	}{
		{"JPEG", true},
		{"jpeg", true}, // case-insensitive
		{"JPG", true},
		{"png", true},
		{"TIFF", true},
		{"tif", true},
		{"BMP", false},
		{"WEBP", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			m := mustMetadata(t, 2000, 1500, 1024, tt.format, "sRGB", nil)
			violations := ValidateQuality(m)
			if tt.ok {
				assert.Empty(t, violations)
			} else {
				require.Len(t, violations, 1)
				assert.Contains(t, violations[0], "format")
			}
		})
	}
}

func TestValidateQuality_ColorSpace(t *testing.T) {
	for _, space := range []string{"RGB", "sRGB", "Adobe RGB"} {
		m := mustMetadata(t, 2000, 1500, 1024, "JPEG", space, nil)
		assert.Empty(t, ValidateQuality(m), "color space %s should pass", space)
	}

	// Case-sensitive: "srgb" is not accepted
	m := mustMetadata(t, 2000, 1500, 1024, "JPEG", "srgb", nil)
	violations := ValidateQuality(m)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "color space")
}

func TestValidateQuality_AccumulatesAllViolations(t *testing.T) {
	// 0.48 MP and unsupported BMP: exactly two violations, in one call
	m := mustMetadata(t, 800, 600, 2*1024*1024, "BMP", "RGB", nil)
	assert.InDelta(t, 0.48, m.Megapixels(), 0.0001)

	violations := ValidateQuality(m)
	require.Len(t, violations, 2)
	joined := strings.Join(violations, "\n")
	assert.Contains(t, joined, "megapixels")
	assert.Contains(t, joined, "format")
}

func TestMeetsQualityStandard_MatchesValidate(t *testing.T) {
	samples := []PhotoMetadata{
		mustMetadata(t, 1920, 1080, 3*1024*1024, "JPEG", "sRGB", intPtr(150)),
		mustMetadata(t, 800, 600, 2*1024*1024, "BMP", "RGB", nil),
		mustMetadata(t, 4000, 3000, 20*1024*1024, "TIFF", "Adobe RGB", intPtr(300)),
		mustMetadata(t, 2000, 1000, 1024, "PNG", "srgb", intPtr(71)),
	}
	for _, m := range samples {
		assert.Equal(t, len(ValidateQuality(m)) == 0, MeetsQualityStandard(m))
	}
}
