package pdf

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"tgpcet-it/internal/models"

	"github.com/pkg/errors"
)

const (
	dateLayout      = "02/01/2006"
	timestampLayout = "02/01/2006 15:04:05"

	// порог перехода на новую страницу
	sectionBreakY = 250
	formRowBreakY = 280
	cardRowBreakY = 250

	emailMaxWidth  = 55
	emailKeepChars = 20
)

type Document struct {
	Filename string
	Data     []byte
}

type Renderer struct {
	images     ImageSource
	newSurface func() Surface
	now        func() time.Time
}

func NewRenderer(images ImageSource) *Renderer {
	return &Renderer{images: images, newSurface: NewFPDF, now: time.Now}
}

func formatDate(t *time.Time, fallback time.Time) string {
	if t == nil || t.IsZero() {
		return fallback.Format(dateLayout)
	}
	return t.Format(dateLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orAdmin(s string) string {
	if s == "" {
		return "Admin"
	}
	return s
}

func (r *Renderer) watermark(s Surface) {
	data, err := r.images.Image(Watermark)
	if err == nil {
		err = s.Image(Watermark, data, 55, 100, 100, 100, 0.1)
	}
	if err != nil {
		log.Printf("could not load watermark: %v", err)
	}
}

func (r *Renderer) stamp(s Surface, name string) error {
	data, err := r.images.Image(name)
	if err != nil {
		return err
	}
	return s.Image(name, data, 140, 200, 40, 40, 1)
}

func (r *Renderer) finish(s Surface, filename string) (Document, error) {
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		return Document{}, errors.Wrapf(err, "render %s", filename)
	}
	return Document{Filename: filename, Data: buf.Bytes()}, nil
}

//
// ЗАЯВКА
//

// ApplicationForm — бланк заявки с отметкой статуса.
func (r *Renderer) ApplicationForm(user models.User, ev models.Event, app models.Application) (Document, error) {
	s := r.newSurface()
	now := r.now()
	profile := user.Profile

	r.watermark(s)

	s.SetFillColor(240, 249, 255)
	s.FillRect(0, 0, 210, 40)

	s.SetFontSize(22)
	s.SetTextColor(41, 128, 185)
	s.Text(105, 20, "TGPCET IT Department", AlignCenter)

	s.SetFontSize(14)
	s.SetTextColor(100, 100, 100)
	s.Text(105, 30, "Event Application Form", AlignCenter)

	switch app.Status {
	case models.StatusPending:
		s.SetTextColor(200, 200, 200)
		s.SetFontSize(40)
		s.RotatedText(105, 150, "UNDER SCRUTINY", 45, AlignCenter)

	case models.StatusRejected:
		if err := r.stamp(s, RejectStamp); err != nil {
			log.Printf("could not load reject stamp: %v", err)
			s.SetTextColor(220, 38, 38)
			s.SetFontSize(40)
			s.RotatedText(105, 150, "REJECTED", 45, AlignCenter)
			break
		}
		s.SetFontSize(8)
		s.SetTextColor(220, 38, 38)
		s.Text(160, 245, fmt.Sprintf("Rejected By : %s (%s)", orAdmin(app.ApproverName), orAdmin(app.ApproverRole)), AlignCenter)
		s.Text(160, 250, "date : "+formatDate(app.ProcessedAt, now), AlignCenter)
	}

	s.SetFontSize(10)
	s.SetTextColor(100, 100, 100)
	s.Text(190, 50, "Application No: "+app.ApplicationNumber, AlignRight)
	s.Text(190, 55, "Applied On: "+formatDate(&app.AppliedAt, now), AlignRight)

	s.SetFontSize(12)
	s.SetTextColor(0, 0, 0)
	s.Text(20, 65, "Event Details", AlignLeft)
	s.SetLineWidth(0.5)
	s.Line(20, 68, 190, 68)

	s.SetFontSize(10)
	field(s, 20, 60, 78, "Event Name:", ev.Title)
	field(s, 20, 60, 88, "Date:", ev.Date)
	field(s, 20, 60, 98, "Venue:", ev.Venue)

	s.SetFontSize(12)
	s.Text(20, 115, "Applicant Details", AlignLeft)
	s.Line(20, 118, 190, 118)

	s.SetFontSize(10)
	fullName := profile.FullName
	if fullName == "" {
		fullName = user.Email
	}
	field(s, 20, 60, 128, "Full Name:", fullName)
	field(s, 20, 60, 138, "Email:", user.Email)
	field(s, 20, 60, 148, "Mobile:", orNA(profile.Mobile))
	field(s, 20, 60, 158, "PRN:", orNA(profile.PRN))
	field(s, 20, 60, 168, "Class:", fmt.Sprintf("%s Year - Section %s", orNA(profile.Year), orNA(profile.Section)))

	s.Text(20, 178, "Address:", AlignLeft)
	address := s.SplitText(orNA(profile.Address), 130)
	for i, line := range address {
		s.Text(60, 178+float64(i)*5, line, AlignLeft)
	}

	y := 178 + float64(len(address))*5 + 10

	s.SetFontSize(12)
	s.Text(20, y, "Payment Information", AlignLeft)
	s.Line(20, y+3, 190, y+3)

	s.SetFontSize(10)
	y += 13
	field(s, 20, 60, y, "Fee Amount:", fmt.Sprintf("Rs. %d", app.Fee))
	y += 10
	field(s, 20, 60, y, "Transaction ID:", orNA(app.TransactionID))

	if len(app.TeamMembers) > 0 {
		y += 20
		if y > sectionBreakY {
			r.newPage(s)
			y = 20
		}

		s.SetFontSize(12)
		s.Text(20, y, "Team Members", AlignLeft)
		s.Line(20, y+3, 190, y+3)

		s.SetFontSize(10)
		y += 13
		y = r.teamTable(s, app.TeamMembers, y, formRowBreakY)
	}

	s.SetFontSize(8)
	s.SetTextColor(150, 150, 150)
	s.Text(20, 285, "Generated: "+now.Format(timestampLayout), AlignLeft)
	s.Text(105, 290, "This is a computer generated document.", AlignCenter)

	number := app.ApplicationNumber
	if number == "" {
		number = "Draft"
	}
	return r.finish(s, fmt.Sprintf("Application_%s.pdf", number))
}

//
// ДОПУСК
//

// AdmitCard — допуск на мероприятие для одобренной заявки.
func (r *Renderer) AdmitCard(user models.User, ev models.Event, app models.Application) (Document, error) {
	s := r.newSurface()
	now := r.now()
	profile := user.Profile

	r.watermark(s)

	s.SetFillColor(240, 253, 244)
	s.FillRect(0, 0, 210, 40)

	s.SetFontSize(22)
	s.SetTextColor(22, 163, 74)
	s.Text(105, 20, "TGPCET IT Department", AlignCenter)

	s.SetFontSize(16)
	s.SetTextColor(21, 128, 61)
	s.Text(105, 30, "OFFICIAL ADMIT CARD", AlignCenter)

	s.SetDrawColor(22, 163, 74)
	s.SetLineWidth(0.5)
	s.StrokeRect(20, 50, 170, 40)

	s.SetFontSize(14)
	s.SetTextColor(0, 0, 0)
	s.Text(105, 60, ev.Title, AlignCenter)

	s.SetFontSize(10)
	s.Text(105, 70, fmt.Sprintf("Date: %s | Venue: %s", ev.Date, ev.Venue), AlignCenter)
	s.Text(105, 80, "Application No: "+app.ApplicationNumber, AlignCenter)

	s.SetFontSize(12)
	s.Text(20, 105, "Candidate Details", AlignLeft)
	s.Line(20, 108, 190, 108)

	s.SetFontSize(10)
	fullName := profile.FullName
	if fullName == "" {
		fullName = user.Email
	}
	field(s, 20, 40, 118, "Name:", fullName)
	field(s, 20, 40, 128, "Email:", user.Email)
	field(s, 20, 40, 138, "Mobile:", orNA(profile.Mobile))
	field(s, 110, 130, 118, "PRN:", orNA(profile.PRN))
	field(s, 110, 130, 128, "Class:", fmt.Sprintf("%s - %s", orNA(profile.Year), orNA(profile.Section)))

	if len(app.TeamMembers) > 0 {
		s.SetFontSize(12)
		s.Text(20, 148, "Team Members", AlignLeft)
		s.Line(20, 151, 190, 151)

		s.SetFontSize(10)
		r.teamTable(s, app.TeamMembers, 158, cardRowBreakY)
	}

	if err := r.stamp(s, ApprovedStamp); err != nil {
		log.Printf("could not load stamp image: %v", err)
		s.SetDrawColor(22, 163, 74)
		s.SetLineWidth(2)
		s.Circle(160, 220, 25)
		s.SetFontSize(12)
		s.SetTextColor(22, 163, 74)
		s.Text(160, 220, "APPROVED", AlignCenter)
	} else {
		s.SetFontSize(8)
		s.SetTextColor(22, 163, 74)
		s.Text(160, 245, fmt.Sprintf("Approved By : %s (%s)", orAdmin(app.ApproverName), orAdmin(app.ApproverRole)), AlignCenter)
		s.Text(160, 250, "date : "+formatDate(app.ProcessedAt, now), AlignCenter)
	}

	s.SetFontSize(10)
	s.SetTextColor(0, 0, 0)
	s.Text(20, 250, "Instructions:", AlignLeft)
	s.SetFontSize(8)
	s.Text(20, 258, "1. Please carry this admit card to the event venue.", AlignLeft)
	s.Text(20, 263, "2. Report 15 minutes before the scheduled time.", AlignLeft)
	s.Text(20, 268, "3. Valid College ID card is mandatory.", AlignLeft)

	return r.finish(s, fmt.Sprintf("AdmitCard_%s.pdf", app.ApplicationNumber))
}

//
// ОБЩЕЕ
//

func field(s Surface, labelX, valueX, y float64, label, value string) {
	s.Text(labelX, y, label, AlignLeft)
	s.Text(valueX, y, value, AlignLeft)
}

func (r *Renderer) newPage(s Surface) {
	s.AddPage()
	r.watermark(s)
}

func tableHeader(s Surface, y float64) {
	s.SetBold(true)
	s.Text(20, y, "Name", AlignLeft)
	s.Text(70, y, "Email", AlignLeft)
	s.Text(130, y, "Mobile", AlignLeft)
	s.Text(170, y, "PRN", AlignLeft)
	s.SetBold(false)
}

// teamTable рисует таблицу участников и возвращает новую позицию курсора.
func (r *Renderer) teamTable(s Surface, members []models.TeamMember, y, breakY float64) float64 {
	tableHeader(s, y)
	y += 8

	for i, m := range members {
		if y > breakY {
			r.newPage(s)
			y = 20
			tableHeader(s, y)
			y += 8
		}

		s.Text(20, y, fmt.Sprintf("%d. %s", i+1, m.Name), AlignLeft)
		s.Text(70, y, shortEmail(s, m.Email), AlignLeft)
		s.Text(130, y, orDash(m.Mobile), AlignLeft)
		s.Text(170, y, orDash(m.PRN), AlignLeft)
		y += 8
	}
	return y
}

func shortEmail(s Surface, email string) string {
	if s.TextWidth(email) <= emailMaxWidth {
		return email
	}
	runes := []rune(email)
	if len(runes) > emailKeepChars {
		runes = runes[:emailKeepChars]
	}
	return string(runes) + "..."
}
