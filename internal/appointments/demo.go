package appointments

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"salonportal/internal/model"
)

type demoTemplate struct {
	start    string
	duration int
	service  string
	customer string
	price    float64
	status   model.AppointmentStatus
}

var demoFixtures = []demoTemplate{
	{"10:00", 60, "Cut", "Aiko Tanaka", 5500, model.StatusConfirmed},
	{"11:30", 90, "Cut & Blow", "Mei Suzuki", 7700, model.StatusPending},
	{"13:00", 120, "Color", "Yuki Sato", 12000, model.StatusConfirmed},
	{"15:30", 60, "Treatment", "Hana Ito", 4400, model.StatusCompleted},
	{"16:30", 90, "Perm", "Rin Kato", 13200, model.StatusConfirmed},
}

var demoServices = []struct {
	name     string
	duration int
	price    float64
}{
	{"Cut", 60, 5500},
	{"Cut & Blow", 90, 7700},
	{"Color", 120, 12000},
	{"Treatment", 30, 3300},
	{"Perm", 150, 14300},
	{"Head Spa", 60, 6600},
}

var demoCustomers = []string{"Aiko Tanaka", "Mei Suzuki", "Yuki Sato", "Hana Ito", "Rin Kato", "Sora Yamada", "Emi Watanabe"}

// DemoSource synthesizes bookings for trial portals.
// Without a seed it returns a fixed dataset; with one it adds a random
// but reproducible overlay per date.
type DemoSource struct {
	seed   int64
	random bool
}

// NewDemoSource returns the fixed demo dataset.
func NewDemoSource() *DemoSource {
	return &DemoSource{}
}

// NewRandomDemoSource returns randomized demo data reproducible for the same seed.
func NewRandomDemoSource(seed int64) *DemoSource {
	return &DemoSource{seed: seed, random: true}
}

// FetchAppointments implements Source.
func (d *DemoSource) FetchAppointments(_ context.Context, stylistID string, from, to time.Time) (Result, error) {
	var out []model.AppointmentBlock
	for day := dateOnly(from); !day.After(dateOnly(to)); day = day.AddDate(0, 0, 1) {
		if d.random {
			out = append(out, d.randomDay(stylistID, day)...)
		} else {
			out = append(out, fixedDay(stylistID, day)...)
		}
	}
	return Result{Appointments: out, Origin: OriginDemo, Stale: true}, nil
}

// fixedDay picks a weekday-dependent subset of the fixtures so the week looks busy but varied.
func fixedDay(stylistID string, day time.Time) []model.AppointmentBlock {
	date := day.Format(dateLayout)
	offset := int(day.Weekday())
	var out []model.AppointmentBlock
	for i, tpl := range demoFixtures {
		if (i+offset)%3 == 0 {
			continue
		}
		out = append(out, newBlock(stylistID, date, tpl.start, tpl.duration, tpl.service, tpl.customer, tpl.price, tpl.status))
	}
	return out
}

func (d *DemoSource) randomDay(stylistID string, day time.Time) []model.AppointmentBlock {
	rng := rand.New(rand.NewSource(d.seed ^ day.Unix()))
	date := day.Format(dateLayout)

	const (
		openAt  = 9 * 60
		closeAt = 19 * 60
		step    = model.DefaultSlotStep
	)
	busyUntil := openAt
	var out []model.AppointmentBlock
	for busyUntil < closeAt {
		gap := rng.Intn(4) * step
		start := busyUntil + gap
		svc := demoServices[rng.Intn(len(demoServices))]
		if start+svc.duration > closeAt {
			break
		}
		status := model.StatusConfirmed
		if rng.Intn(4) == 0 {
			status = model.StatusPending
		}
		customer := demoCustomers[rng.Intn(len(demoCustomers))]
		out = append(out, newBlock(stylistID, date, model.FormatClock(start), svc.duration, svc.name, customer, svc.price, status))
		busyUntil = start + svc.duration
	}
	return out
}

func newBlock(stylistID, date, start string, duration int, service, customer string, price float64, status model.AppointmentStatus) model.AppointmentBlock {
	startMin, _ := model.ParseClock(start)
	return model.AppointmentBlock{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(stylistID+"/"+date+"/"+start)).String(),
		Date:         date,
		CustomerName: customer,
		Service:      service,
		StartTime:    start,
		EndTime:      model.FormatClock(startMin + duration),
		Duration:     duration,
		Price:        price,
		Status:       status,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
