// Package seed — сброс справочника преподавателей к списку по умолчанию.
package seed

import (
	"context"
	"errors"
	"log"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"golang.org/x/sync/errgroup"
)

const Prompt = "This will clear existing staff and add the default list. Continue?"

var ErrAborted = errors.New("seeding aborted by operator")

// Confirm спрашивает оператора, false — отказ.
type Confirm func(prompt string) bool

type Seeder struct {
	staff   store.Staff
	confirm Confirm
}

func NewSeeder(staff store.Staff, confirm Confirm) *Seeder {
	return &Seeder{staff: staff, confirm: confirm}
}

// SeedStaff удаляет всех преподавателей и добавляет DefaultStaff.
// Удаление и вставка идут параллельно; первая ошибка прерывает
// оставшуюся пачку, уже удалённые записи не восстанавливаются.
func (s *Seeder) SeedStaff(ctx context.Context, confirm bool) error {
	if confirm && (s.confirm == nil || !s.confirm(Prompt)) {
		return ErrAborted
	}

	existing, err := s.staff.ListStaff(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range existing {
		id := st.ID
		g.Go(func() error {
			return s.staff.DeleteStaff(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, st := range DefaultStaff() {
		st := st
		g.Go(func() error {
			return s.staff.AddStaff(gctx, st)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("staff seeded: removed %d, added %d", len(existing), len(defaultStaff))
	return nil
}

// DefaultStaff возвращает копию списка по умолчанию.
func DefaultStaff() []models.Staff {
	out := make([]models.Staff, len(defaultStaff))
	copy(out, defaultStaff)
	return out
}

var defaultStaff = []models.Staff{
	{Name: "Dr. Mukul Pande", Designation: "Asst. Prof.", Qualification: "M.Tech (WCC) Ph.D", JoiningDate: "04-Apr-15", Role: "Teaching"},
	{Name: "Dr. Anup Gade", Designation: "Asso. Prof.", Qualification: "M.E. (CS) Ph.D (CSE)", JoiningDate: "08-Jul-07", Role: "Teaching"},
	{Name: "Prof. Abhay Rewatkar", Designation: "Asst. Prof.", Qualification: "M.Tech (CS)", JoiningDate: "13-Jul-13", Role: "Teaching"},
	{Name: "Prof. Jayesh Fating", Designation: "Teaching Assistant", Qualification: "B.E. (IT)", JoiningDate: "15-Jan-24", Role: "Teaching"},
	{Name: "Prof. Swati Thengane", Designation: "Teaching Assistant", Qualification: "B.E. (CSE)", JoiningDate: "06-Feb-24", Role: "Teaching"},
	{Name: "Prof. Nilesh Nagrale", Designation: "Asst. Prof.", Qualification: "M.Tech (EEE), Ph.D *", JoiningDate: "05-Jun-24", Role: "Teaching"},
	{Name: "Prof. Sushil Bhise", Designation: "Asst. Prof.", Qualification: "B.E.M.Tech (AIML)", JoiningDate: "06-Jul-20", Role: "Teaching"},
	{Name: "Prof. Anita Yadav", Designation: "Asst. Prof.", Qualification: "M.Tech (CSE) 2015", JoiningDate: "26-Jun-24", Role: "Teaching"},
	{Name: "Prof. Sayara Bano Sheikh", Designation: "Asst. Prof.", Qualification: "M.E (WCC )", JoiningDate: "18-Dec-23", Role: "Teaching"},
	{Name: "Prof.Ruchita Tajne", Designation: "Asst.Prof.", Qualification: "B.E(IT),,M.Tech(Computer Science)", JoiningDate: "02-Jun-25", Role: "Teaching"},
	{Name: "Prof. T. P. Raju", Designation: "Asst. Prof.", Qualification: "M.Tech CSE, MCA Ph.D*", JoiningDate: "01-Aug-13", Role: "Teaching"},
	{Name: "Prof. Ashwini Mahajan", Designation: "Asst. Prof.", Qualification: "M.Tech (CS)", JoiningDate: "25-Jul-23", Role: "Teaching"},
	{Name: "Prof. Shweta Hedaoo", Designation: "Asst. Prof.", Qualification: "B.E. (CSE), M.Tech (CSE)", JoiningDate: "03-Jul-25", Role: "Teaching"},
}
