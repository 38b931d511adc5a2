// ============================================================================
// waveType - Push-to-Talk Diktat
// ============================================================================
//
// Package:     tray
// Description: Generated state-colored tray icons
// Author:      Mike Stoffels with Claude
// Created:     2026-08-30
// License:     MIT
// ============================================================================

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/msto63/wavetype/internal/session"
)

// iconBytes renders a "wT" PNG in the color of the given session state.
// White = ready, red = recording, blue = transcribing.
func iconBytes(state session.State) []byte {
	width := 32
	height := 22
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var c color.RGBA
	switch state {
	case session.StateRecording:
		c = color.RGBA{255, 59, 48, 255}
	case session.StateStopping:
		c = color.RGBA{0, 122, 255, 255}
	default:
		c = color.RGBA{255, 255, 255, 255}
	}

	drawText(img, "wT", 2, 4, c)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return minimalPNG()
	}
	return buf.Bytes()
}

// Bitmap font data, 5x7 pixels per character.
var bitmapFont = map[rune][]byte{
	'w': {
		0b00000,
		0b00000,
		0b10001,
		0b10001,
		0b10101,
		0b10101,
		0b01010,
	},
	'T': {
		0b11111,
		0b00100,
		0b00100,
		0b00100,
		0b00100,
		0b00100,
		0b00100,
	},
}

// drawText draws text on the image using the bitmap font, scaled 2x.
func drawText(img *image.RGBA, text string, startX, startY int, c color.RGBA) {
	x := startX
	charWidth := 6
	charHeight := 7
	scale := 2

	for _, ch := range text {
		if pattern, ok := bitmapFont[ch]; ok {
			for row := 0; row < charHeight; row++ {
				for col := 0; col < 5; col++ {
					if pattern[row]&(1<<(4-col)) == 0 {
						continue
					}
					for sy := 0; sy < scale; sy++ {
						for sx := 0; sx < scale; sx++ {
							px := x + col*scale + sx
							py := startY + row*scale + sy
							if px >= 0 && px < img.Bounds().Max.X && py >= 0 && py < img.Bounds().Max.Y {
								img.SetRGBA(px, py, c)
							}
						}
					}
				}
			}
		}
		x += charWidth * scale
	}
}

// minimalPNG returns a 1x1 fallback icon.
func minimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
