package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/google/uuid"
	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/media"
	"golang.org/x/image/draw"
)

// PNGCapture draws a frame onto a fixed-size canvas and encodes it as PNG,
// the way a browser canvas snapshot works: the frame is stretched to the canvas.
type PNGCapture struct {
	Width  int
	Height int
}

// NewPNGCapture returns a capture with the given canvas size, falling back to 640x480.
func NewPNGCapture(width, height int) *PNGCapture {
	if width <= 0 || height <= 0 {
		width, height = constants.DefaultFrameWidth, constants.DefaultFrameHeight
	}
	return &PNGCapture{Width: width, Height: height}
}

func (c *PNGCapture) Capture(frame image.Image) (media.FileHandle, error) {
	if frame == nil {
		return media.FileHandle{}, fmt.Errorf("no frame to capture")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return media.FileHandle{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return media.FileHandle{
		Name:        "capture-" + uuid.NewString() + ".png",
		ContentType: "image/png",
		Data:        buf.Bytes(),
	}, nil
}
