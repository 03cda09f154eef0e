// Package pdf — заявка на мероприятие и допуск (admit card) в PDF.
package pdf

import (
	"bytes"
	"image"
	_ "image/png"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface — примитивы рисования, которыми пользуются макеты.
// Координаты в миллиметрах, лист A4 210x297.
type Surface interface {
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetTextColor(r, g, b int)
	SetFontSize(size float64)
	SetBold(bold bool)
	SetLineWidth(w float64)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	Circle(x, y, r float64)

	Text(x, y float64, s string, align Align)
	RotatedText(x, y float64, s string, angle float64, align Align)
	Image(name string, data []byte, x, y, w, h, opacity float64) error

	TextWidth(s string) float64
	SplitText(s string, width float64) []string

	AddPage()
	Write(w io.Writer) error
}

type fpdfSurface struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewFPDF — Surface поверх go-pdf/fpdf, первая страница уже добавлена.
func NewFPDF() Surface {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetAutoPageBreak(false, 0)
	p.SetFont("Helvetica", "", 10)
	p.AddPage()
	return &fpdfSurface{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
}

func (s *fpdfSurface) SetFillColor(r, g, b int) { s.pdf.SetFillColor(r, g, b) }
func (s *fpdfSurface) SetDrawColor(r, g, b int) { s.pdf.SetDrawColor(r, g, b) }
func (s *fpdfSurface) SetTextColor(r, g, b int) { s.pdf.SetTextColor(r, g, b) }
func (s *fpdfSurface) SetFontSize(size float64) { s.pdf.SetFontSize(size) }
func (s *fpdfSurface) SetLineWidth(w float64)   { s.pdf.SetLineWidth(w) }

func (s *fpdfSurface) SetBold(bold bool) {
	if bold {
		s.pdf.SetFontStyle("B")
		return
	}
	s.pdf.SetFontStyle("")
}

func (s *fpdfSurface) FillRect(x, y, w, h float64)   { s.pdf.Rect(x, y, w, h, "F") }
func (s *fpdfSurface) StrokeRect(x, y, w, h float64) { s.pdf.Rect(x, y, w, h, "D") }
func (s *fpdfSurface) Line(x1, y1, x2, y2 float64)   { s.pdf.Line(x1, y1, x2, y2) }
func (s *fpdfSurface) Circle(x, y, r float64)        { s.pdf.Circle(x, y, r, "D") }

func (s *fpdfSurface) alignX(x float64, text string, align Align) float64 {
	switch align {
	case AlignCenter:
		return x - s.pdf.GetStringWidth(text)/2
	case AlignRight:
		return x - s.pdf.GetStringWidth(text)
	}
	return x
}

func (s *fpdfSurface) Text(x, y float64, str string, align Align) {
	t := s.tr(str)
	s.pdf.Text(s.alignX(x, t, align), y, t)
}

func (s *fpdfSurface) RotatedText(x, y float64, str string, angle float64, align Align) {
	t := s.tr(str)
	s.pdf.TransformBegin()
	s.pdf.TransformRotate(angle, x, y)
	s.pdf.Text(s.alignX(x, t, align), y, t)
	s.pdf.TransformEnd()
}

// Image проверяет картинку до регистрации в fpdf. Ошибку fpdf забираем
// и сбрасываем: битый штамп уходит в запасной вариант, документ живёт дальше.
func (s *fpdfSurface) Image(name string, data []byte, x, y, w, h, opacity float64) error {
	if err := s.pdf.Error(); err != nil {
		return err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if s.pdf.GetImageInfo(name) == nil {
		s.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if err := s.takeError(); err != nil {
			return errors.Wrapf(err, "register %s", name)
		}
	}

	if opacity < 1 {
		s.pdf.SetAlpha(opacity, "Normal")
	}
	s.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	err := s.takeError()
	if opacity < 1 {
		s.pdf.SetAlpha(1, "Normal")
	}
	return errors.Wrapf(err, "place %s", name)
}

func (s *fpdfSurface) takeError() error {
	err := s.pdf.Error()
	if err != nil {
		s.pdf.ClearError()
	}
	return err
}

func (s *fpdfSurface) TextWidth(str string) float64 {
	return s.pdf.GetStringWidth(s.tr(str))
}

// SplitText режет по ширине средствами fpdf. Таблица ширин шрифта
// знает только первые 256 символов, остальные заменяем на '?'.
func (s *fpdfSurface) SplitText(str string, width float64) []string {
	return s.pdf.SplitText(latin1(str), width)
}

func latin1(str string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, str)
}

func (s *fpdfSurface) AddPage() { s.pdf.AddPage() }

func (s *fpdfSurface) Write(w io.Writer) error {
	if err := s.pdf.Error(); err != nil {
		return err
	}
	return s.pdf.Output(w)
}
