package weldmark

import "fmt"

// PhotoMetadata holds the technical properties of a captured image.
// It is a value object: all required fields are validated at construction
// and never change afterwards.
type PhotoMetadata struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	FileSize    int64  `json:"fileSize"`
	ImageFormat string `json:"imageFormat"`
	ColorSpace  string `json:"colorSpace"`

	// DPI is optional; nil means the capture device did not report it.
	DPI *int `json:"dpi,omitempty"`
}

// NewPhotoMetadata constructs validated photo metadata.
// Returns EINVALID if any required field is missing or out of range.
func NewPhotoMetadata(width, height int, fileSize int64, imageFormat, colorSpace string, dpi *int) (PhotoMetadata, error) {
	fields := map[string]string{}
	if width <= 0 {
		fields["width"] = "must be a positive number of pixels"
	}
	if height <= 0 {
		fields["height"] = "must be a positive number of pixels"
	}
	if fileSize <= 0 {
		fields["fileSize"] = "must be a positive number of bytes"
	}
	if imageFormat == "" {
		fields["imageFormat"] = "must not be blank"
	}
	if colorSpace == "" {
		fields["colorSpace"] = "must not be blank"
	}
	if dpi != nil && *dpi <= 0 {
		fields["dpi"] = "must be positive when present"
	}
	if len(fields) > 0 {
		return PhotoMetadata{}, ErrorWithFields(fields)
	}

	return PhotoMetadata{
		Width:       width,
		Height:      height,
		FileSize:    fileSize,
		ImageFormat: imageFormat,
		ColorSpace:  colorSpace,
		DPI:         dpi,
	}, nil
}

// Megapixels returns the pixel count in millions.
func (m PhotoMetadata) Megapixels() float64 {
	return float64(m.Width) * float64(m.Height) / 1e6
}

// AspectRatio returns width divided by height.
func (m PhotoMetadata) AspectRatio() float64 {
	return float64(m.Width) / float64(m.Height)
}

// Resolution returns the "WxH" display string, e.g. "1920x1080".
func (m PhotoMetadata) Resolution() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
