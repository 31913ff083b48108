package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxPhotoDimension - длинная сторона фотографии после нормализации
const MaxPhotoDimension = 1600

// Processor приводит загружаемые фотографии к разумному размеру
// перед отправкой в хранилище
type Processor struct {
	quality int // JPEG качество (1-100)
	maxSide int
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
		maxSide: MaxPhotoDimension,
	}
}

// Normalize декодирует фотографию, ужимает до maxSide по длинной стороне
// и перекодирует. PNG остается PNG, остальные форматы (jpeg, gif, webp)
// приводятся к JPEG. Невалидная картинка - ошибка: это заодно и проверка,
// что клиент прислал настоящее изображение.
func (p *Processor) Normalize(reader io.Reader) (io.Reader, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = p.shrink(img)

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return &buf, "image/png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return &buf, "image/jpeg", nil
}

// shrink уменьшает картинку с сохранением пропорций.
// Картинки меньше лимита не трогаем, чтобы не терять качество.
func (p *Processor) shrink(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= p.maxSide && height <= p.maxSide {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := p.maxSide
	newHeight := p.maxSide
	if width > height {
		newHeight = int(float64(p.maxSide) / ratio)
	} else {
		newWidth = int(float64(p.maxSide) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
