package tagsphere

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a capture of the cloud's viewport at the end of the
// current frame's Draw. The PNG is written to ScreenshotDir, named by time,
// frame number and label.
func (c *Cloud) Screenshot(label string) {
	c.screenshotQueue = append(c.screenshotQueue, label)
}

// flushScreenshots writes one PNG of the viewport image per queued label.
func (c *Cloud) flushScreenshots(viewport *ebiten.Image) {
	if len(c.screenshotQueue) == 0 {
		return
	}
	defer func() { c.screenshotQueue = c.screenshotQueue[:0] }()

	if err := os.MkdirAll(c.ScreenshotDir, 0o755); err != nil {
		c.logger.Error("screenshot: mkdir failed", "dir", c.ScreenshotDir, "err", err)
		return
	}

	img := readNRGBA(viewport)
	stamp := time.Now().Format("20060102_150405")
	attrs := []any{"frame", c.frames}
	if c.engine != nil {
		attrs = append(attrs, "engine", c.engine.ID(), "labels", len(c.engine.Nodes()))
	}
	for _, label := range c.screenshotQueue {
		path := filepath.Join(c.ScreenshotDir, screenshotName(stamp, c.frames, label))
		if err := writePNG(path, img); err != nil {
			c.logger.Error("screenshot failed", "err", err)
			continue
		}
		c.logger.Info("screenshot saved", append([]any{"path", path}, attrs...)...)
	}
}

func screenshotName(stamp string, frame uint64, label string) string {
	return fmt.Sprintf("%s_f%06d_%s.png", stamp, frame, sanitizeLabel(label))
}

// readNRGBA copies img, which may be a sub-image, and converts
// premultiplied RGBA to straight alpha.
func readNRGBA(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	unpremultiply(img.Pix, pixels)
	return img
}

func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
