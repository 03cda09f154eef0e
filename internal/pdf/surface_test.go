package pdf

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"tgpcet-it/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// interlacedPNG — 1x1 PNG с флагом interlace в IHDR. Стандартная библиотека
// его читает, fpdf отказывается.
func interlacedPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// сигнатура 8 байт, длина и тип чанка по 4, interlace — последний байт данных IHDR
	const ihdrType, ihdrData = 12, 16
	data[ihdrData+12] = 1
	binary.BigEndian.PutUint32(data[ihdrData+13:], crc32.ChecksumIEEE(data[ihdrType:ihdrData+13]))

	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return data
}

func TestFPDFRendersDocuments(t *testing.T) {
	p := pngBytes(t)
	r := NewRenderer(fakeImages{Watermark: p, RejectStamp: p, ApprovedStamp: p})

	app := models.Application{
		ApplicationNumber: "APP-42",
		Status:            models.StatusRejected,
		TeamMembers:       team(40),
	}
	doc, err := r.ApplicationForm(sampleUser(), sampleEvent(), app)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))

	doc, err = r.AdmitCard(sampleUser(), sampleEvent(), app)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestFPDFBrokenStampFallsBack(t *testing.T) {
	r := NewRenderer(fakeImages{Watermark: pngBytes(t), RejectStamp: []byte("not a png")})

	doc, err := r.ApplicationForm(sampleUser(), sampleEvent(), models.Application{Status: models.StatusRejected})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestFPDFUnsupportedImageDoesNotSpoilDocument(t *testing.T) {
	bad := interlacedPNG(t)

	tests := []struct {
		name   string
		images fakeImages
		status models.ApplicationStatus
	}{
		{"reject stamp", fakeImages{Watermark: pngBytes(t), RejectStamp: bad}, models.StatusRejected},
		{"watermark", fakeImages{Watermark: bad}, models.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(tt.images)
			doc, err := r.ApplicationForm(sampleUser(), sampleEvent(), models.Application{ApplicationNumber: "X", Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, "Application_X.pdf", doc.Filename)
			assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
		})
	}
}

func TestFPDFImageErrorIsReturnedAndCleared(t *testing.T) {
	s := NewFPDF()
	assert.Error(t, s.Image("bad.png", interlacedPNG(t), 0, 0, 10, 10, 0.5))

	// после ошибки картинки можно рисовать дальше
	require.NoError(t, s.Image("good.png", pngBytes(t), 0, 0, 10, 10, 1))
	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.NotZero(t, buf.Len())
}

func TestFPDFSplitText(t *testing.T) {
	s := NewFPDF()
	address := strings.Repeat("Plot 12, Mohgaon Road, Nagpur ", 8)

	lines := s.SplitText(address, 130)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, s.TextWidth(l), 130.0)
	}

	// символы вне таблицы шрифта не роняют разбиение
	assert.NotEmpty(t, s.SplitText("नागपुर Nagpur", 130))
}

func TestFPDFImageRejectsGarbage(t *testing.T) {
	s := NewFPDF()
	assert.Error(t, s.Image("x.png", []byte("garbage"), 0, 0, 10, 10, 1))

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.NotZero(t, buf.Len())
}
