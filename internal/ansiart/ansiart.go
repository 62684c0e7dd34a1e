// Package ansiart renders card images as terminal art with half-block
// characters.
package ansiart

import (
	"crypto/md5"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Default art size in character cells.
const (
	DefaultWidth  = 40
	DefaultHeight = 32
)

const halfBlock = '▀'

// Render converts img to width x height cells. Each cell covers a 2x2
// pixel block: the top pair becomes the foreground of an upper half block,
// the bottom pair its background. Without trueColor the 256-colour palette
// is used.
func Render(img image.Image, width, height int, trueColor bool) string {
	if width < 1 {
		width = DefaultWidth
	}
	if height < 1 {
		height = DefaultHeight
	}

	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var b strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			top := average(colorAt(resized, x, y), colorAt(resized, x+1, y))
			bottom := average(colorAt(resized, x, y+1), colorAt(resized, x+1, y+1))
			b.WriteString(cell(halfBlock, top, bottom, trueColor))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderFile decodes the image at path and renders it.
func RenderFile(path string, width, height int, trueColor bool) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return Render(img, width, height, trueColor), nil
}

// Cache stores rendered art below Dir, keyed by image path and size.
type Cache struct {
	Dir string
}

// Load returns the art for the image at path, rendering and storing it on
// a miss.
func (c Cache) Load(path string, width, height int, trueColor bool) (string, error) {
	key := fmt.Sprintf("%s|%dx%d|%t", path, width, height, trueColor)
	cached := filepath.Join(c.Dir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))

	if data, err := os.ReadFile(cached); err == nil {
		return string(data), nil
	}

	art, err := RenderFile(path, width, height, trueColor)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %w", err)
	}
	if err := os.WriteFile(cached, []byte(art), 0644); err != nil {
		return "", fmt.Errorf("failed to write ANSI art to cache: %w", err)
	}
	return art, nil
}

func colorAt(img image.Image, x, y int) colorful.Color {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return colorful.Color{}
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// fully transparent
		return colorful.Color{}
	}
	return c
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

func cell(ch rune, fg, bg colorful.Color, trueColor bool) string {
	if trueColor {
		r1, g1, b1 := fg.Clamped().RGB255()
		r2, g2, b2 := bg.Clamped().RGB255()
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			r1, g1, b1, r2, g2, b2, ch)
	}
	return fmt.Sprintf("\x1b[38;5;%dm\x1b[48;5;%dm%c\x1b[0m", xterm256(fg), xterm256(bg), ch)
}

// xterm256 maps a colour to the 6x6x6 cube of the 256-colour palette.
func xterm256(c colorful.Color) int {
	r, g, b := c.Clamped().RGB255()
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return 16 + 36*q(r) + 6*q(g) + q(b)
}

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	var b strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\x1b':
			inEscape = true
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// VisibleWidth returns the number of cells s occupies once escapes are
// removed.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(Strip(s))
}

// Wrap splits text into lines of at most width runes.
func Wrap(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= width {
			line += " " + w
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
