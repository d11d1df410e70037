package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 32

// calendarIcon draws a small tear-off calendar and wraps the PNG into an ICO container
func calendarIcon() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	red := color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey := color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}

	for y := 3; y < iconSize-2; y++ {
		for x := 2; x < iconSize-2; x++ {
			switch {
			case y < 10:
				img.Set(x, y, red)
			case (x-4)%6 < 3 && (y-13)%6 < 3 && x < iconSize-5 && y < iconSize-5:
				img.Set(x, y, grey)
			default:
				img.Set(x, y, white)
			}
		}
	}

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		return nil, err
	}

	var ico bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image
	header := []uint16{0, 1, 1}
	if err := binary.Write(&ico, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{
		Width:    iconSize,
		Height:   iconSize,
		Planes:   1,
		BitCount: 32,
		Size:     uint32(pngData.Len()),
		Offset:   6 + 16,
	}
	if err := binary.Write(&ico, binary.LittleEndian, entry); err != nil {
		return nil, err
	}

	ico.Write(pngData.Bytes())
	return ico.Bytes(), nil
}
