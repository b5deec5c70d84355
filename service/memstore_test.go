package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"luckydraw/events"
	"luckydraw/models"
)

// memState is the table data of memStore
type memState struct {
	nextID    int64
	events    map[int64]models.Event
	attendees map[int64]models.Attendee
	prizes    map[int64]models.Prize
	drawRuns  []models.DrawRun
	winners   []models.Winner
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:    s.nextID,
		events:    make(map[int64]models.Event, len(s.events)),
		attendees: make(map[int64]models.Attendee, len(s.attendees)),
		prizes:    make(map[int64]models.Prize, len(s.prizes)),
		drawRuns:  append([]models.DrawRun(nil), s.drawRuns...),
		winners:   append([]models.Winner(nil), s.winners...),
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.attendees {
		c.attendees[k] = v
	}
	for k, v := range s.prizes {
		c.prizes[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memStore is an in-memory UnitOfWorkFactory. Transactions are serialized by a
// single lock held from Begin until Commit or Rollback, and a rollback restores
// the state captured at Begin. Constraints mirror the SQL schema.
type memStore struct {
	mu    sync.Mutex
	state *memState
	bus   *events.Bus
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			events:    make(map[int64]models.Event),
			attendees: make(map[int64]models.Attendee),
			prizes:    make(map[int64]models.Prize),
		},
		bus: events.NewBus(),
	}
}

func (s *memStore) Create() UnitOfWork {
	return &memUnitOfWork{store: s, bus: events.NewTransactionalBus(s.bus)}
}

// seedEvent inserts a live event with attendees and one prize outside of any transaction
func (s *memStore) seedEvent(code string, attendees, quantity int) (eventID, prizeID int64, attendeeIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	eventID = st.id()
	st.events[eventID] = models.Event{ID: eventID, Code: code, Name: code, Status: models.EventStatusLive}

	for i := 1; i <= attendees; i++ {
		id := st.id()
		st.attendees[id] = models.Attendee{
			ID:              id,
			EventID:         eventID,
			FullName:        fmt.Sprintf("Attendee %d", i),
			Department:      "QA",
			TicketNumber:    i,
			NormalizedKey:   fmt.Sprintf("attendee-%d|qa", i),
			PhoneNumber:     fmt.Sprintf("09%08d", i),
			NormalizedPhone: fmt.Sprintf("849%08d", i),
			CheckedInAt:     time.Now(),
		}
		attendeeIDs = append(attendeeIDs, id)
	}

	prizeID = st.id()
	st.prizes[prizeID] = models.Prize{ID: prizeID, EventID: eventID, Name: "Prize", QuantityTotal: quantity, QuantityRemaining: quantity}

	return eventID, prizeID, attendeeIDs
}

func (s *memStore) snapshot() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

type memUnitOfWork struct {
	store  *memStore
	saved  *memState
	active bool
	bus    *events.TransactionalBus
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.store.mu.Lock()
	u.saved = u.store.state.clone()
	u.active = true
	return nil
}

func (u *memUnitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	u.saved = nil
	u.store.mu.Unlock()
	u.bus.Flush()
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.store.state = u.saved
	u.active = false
	u.saved = nil
	u.store.mu.Unlock()
	u.bus.Discard()
	return nil
}

func (u *memUnitOfWork) st() *memState {
	if !u.active {
		panic("unit of work not started - call Begin() first")
	}
	return u.store.state
}

func (u *memUnitOfWork) EventRepository() EventRepository       { return memEvents{u} }
func (u *memUnitOfWork) AttendeeRepository() AttendeeRepository { return memAttendees{u} }
func (u *memUnitOfWork) PrizeRepository() PrizeRepository       { return memPrizes{u} }
func (u *memUnitOfWork) DrawRunRepository() DrawRunRepository   { return memDrawRuns{u} }
func (u *memUnitOfWork) WinnerRepository() WinnerRepository     { return memWinners{u} }
func (u *memUnitOfWork) EventBus() EventPublisher               { return u.bus }

type memEvents struct{ u *memUnitOfWork }

func (r memEvents) Create(ctx context.Context, event *models.Event) error {
	st := r.u.st()
	for _, e := range st.events {
		if e.Code == event.Code {
			return models.ErrDuplicateEventCode
		}
	}
	event.ID = st.id()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	st.events[event.ID] = *event
	return nil
}

func (r memEvents) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := r.u.st().events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memEvents) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	for _, e := range r.u.st().events {
		if e.Code == code {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (r memEvents) List(ctx context.Context) ([]*models.EventWithStats, error) {
	var list []*models.EventWithStats
	for _, e := range r.u.st().events {
		stats, _ := r.GetStats(ctx, e.ID)
		list = append(list, &models.EventWithStats{Event: e, Stats: *stats})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r memEvents) GetStats(ctx context.Context, id int64) (*models.EventStats, error) {
	st := r.u.st()
	stats := &models.EventStats{}
	for _, a := range st.attendees {
		if a.EventID == id {
			stats.Attendees++
		}
	}
	for _, p := range st.prizes {
		if p.EventID == id {
			stats.Prizes++
		}
	}
	for _, w := range st.winners {
		if w.EventID == id {
			stats.Winners++
		}
	}
	return stats, nil
}

func (r memEvents) Update(ctx context.Context, event *models.Event) error {
	st := r.u.st()
	e, ok := st.events[event.ID]
	if !ok {
		return models.ErrEventNotFound
	}
	e.Name = event.Name
	e.Status = event.Status
	e.UpdatedAt = time.Now()
	event.UpdatedAt = e.UpdatedAt
	st.events[e.ID] = e
	return nil
}

func (r memEvents) SetCurrentDrawPrize(ctx context.Context, eventID int64, prizeID *int64) error {
	st := r.u.st()
	e, ok := st.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	e.CurrentDrawPrizeID = prizeID
	st.events[eventID] = e
	return nil
}

func (r memEvents) Delete(ctx context.Context, id int64) error {
	st := r.u.st()
	if _, ok := st.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(st.events, id)
	for k, a := range st.attendees {
		if a.EventID == id {
			delete(st.attendees, k)
		}
	}
	for k, p := range st.prizes {
		if p.EventID == id {
			delete(st.prizes, k)
		}
	}
	st.winners = filterWinners(st.winners, func(w models.Winner) bool { return w.EventID != id })
	return nil
}

type memAttendees struct{ u *memUnitOfWork }

func (r memAttendees) Create(ctx context.Context, attendee *models.Attendee) error {
	st := r.u.st()
	for _, a := range st.attendees {
		if a.EventID != attendee.EventID {
			continue
		}
		switch {
		case a.NormalizedPhone == attendee.NormalizedPhone:
			return models.ErrDuplicatePhone
		case a.NormalizedKey == attendee.NormalizedKey:
			return models.ErrDuplicateAttendee
		case a.TicketNumber == attendee.TicketNumber:
			return models.ErrDuplicateTicket
		}
	}
	attendee.ID = st.id()
	attendee.CheckedInAt = time.Now()
	st.attendees[attendee.ID] = *attendee
	return nil
}

func (r memAttendees) NextTicketNumber(ctx context.Context, eventID int64) (int, error) {
	highest := 0
	for _, a := range r.u.st().attendees {
		if a.EventID == eventID && a.TicketNumber > highest {
			highest = a.TicketNumber
		}
	}
	return highest + 1, nil
}

func (r memAttendees) ExistsByPhone(ctx context.Context, eventID int64, normalizedPhone string) (bool, error) {
	for _, a := range r.u.st().attendees {
		if a.EventID == eventID && a.NormalizedPhone == normalizedPhone {
			return true, nil
		}
	}
	return false, nil
}

func (r memAttendees) GetByID(ctx context.Context, eventID, attendeeID int64) (*models.Attendee, error) {
	a, ok := r.u.st().attendees[attendeeID]
	if !ok || a.EventID != eventID {
		return nil, nil
	}
	return &a, nil
}

func (r memAttendees) list(eventID int64, keep func(models.Attendee) bool) []*models.Attendee {
	var list []*models.Attendee
	for _, a := range r.u.st().attendees {
		if a.EventID == eventID && keep(a) {
			a := a
			list = append(list, &a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TicketNumber < list[j].TicketNumber })
	return list
}

func (r memAttendees) ListByEvent(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	list := r.list(eventID, func(models.Attendee) bool { return true })
	sort.Slice(list, func(i, j int) bool { return list[i].TicketNumber > list[j].TicketNumber })
	return list, nil
}

func (r memAttendees) ListEligible(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	return r.list(eventID, func(a models.Attendee) bool { return a.IsEligible() }), nil
}

func (r memAttendees) MarkWon(ctx context.Context, attendeeID int64) error {
	st := r.u.st()
	a, ok := st.attendees[attendeeID]
	if !ok || !a.IsEligible() {
		return models.ErrWinnerConflict
	}
	a.HasWon = true
	st.attendees[attendeeID] = a
	return nil
}

func (r memAttendees) SetExcluded(ctx context.Context, attendeeID int64, excluded bool) error {
	st := r.u.st()
	a, ok := st.attendees[attendeeID]
	if !ok {
		return models.ErrAttendeeNotFound
	}
	a.ExcludedFromRaffle = excluded
	st.attendees[attendeeID] = a
	return nil
}

func (r memAttendees) ResetWinners(ctx context.Context, eventID int64) (int64, error) {
	st := r.u.st()
	var n int64
	for k, a := range st.attendees {
		if a.EventID == eventID && a.HasWon {
			a.HasWon = false
			st.attendees[k] = a
			n++
		}
	}
	return n, nil
}

func (r memAttendees) Delete(ctx context.Context, attendeeID int64) error {
	st := r.u.st()
	if _, ok := st.attendees[attendeeID]; !ok {
		return models.ErrAttendeeNotFound
	}
	delete(st.attendees, attendeeID)
	return nil
}

type memPrizes struct{ u *memUnitOfWork }

func (r memPrizes) Create(ctx context.Context, prize *models.Prize) error {
	st := r.u.st()
	prize.ID = st.id()
	prize.QuantityRemaining = prize.QuantityTotal
	prize.CreatedAt = time.Now()
	st.prizes[prize.ID] = *prize
	return nil
}

func (r memPrizes) GetByID(ctx context.Context, id int64) (*models.Prize, error) {
	p, ok := r.u.st().prizes[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPrizes) ListByEvent(ctx context.Context, eventID int64) ([]*models.Prize, error) {
	var list []*models.Prize
	for _, p := range r.u.st().prizes {
		if p.EventID == eventID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r memPrizes) UpdateDetails(ctx context.Context, prize *models.Prize) error {
	st := r.u.st()
	p, ok := st.prizes[prize.ID]
	if !ok {
		return models.ErrPrizeNotFound
	}
	p.Name = prize.Name
	p.DisplayOrder = prize.DisplayOrder
	st.prizes[p.ID] = p
	return nil
}

func (r memPrizes) Resize(ctx context.Context, prizeID int64, newTotal int) (*models.Prize, error) {
	st := r.u.st()
	p, ok := st.prizes[prizeID]
	if !ok {
		return nil, models.ErrPrizeNotFound
	}
	awarded := p.Awarded()
	if newTotal < awarded {
		return nil, models.NewLocalizedError(models.ErrorKindInvalidInput, "PrizeQuantityBelowAwarded",
			map[string]interface{}{"Awarded": awarded}, "quantity cannot be less than %d already awarded", awarded)
	}
	p.QuantityTotal = newTotal
	p.QuantityRemaining = newTotal - awarded
	st.prizes[prizeID] = p
	return &p, nil
}

func (r memPrizes) DecrementRemaining(ctx context.Context, prizeID int64) (int, error) {
	st := r.u.st()
	p, ok := st.prizes[prizeID]
	if !ok || p.QuantityRemaining <= 0 {
		return 0, models.ErrPrizeExhausted
	}
	p.QuantityRemaining--
	st.prizes[prizeID] = p
	return p.QuantityRemaining, nil
}

func (r memPrizes) ResetQuantities(ctx context.Context, eventID int64) (int64, error) {
	st := r.u.st()
	var n int64
	for k, p := range st.prizes {
		if p.EventID == eventID {
			p.QuantityRemaining = p.QuantityTotal
			st.prizes[k] = p
			n++
		}
	}
	return n, nil
}

func (r memPrizes) Delete(ctx context.Context, prizeID int64) error {
	st := r.u.st()
	if _, ok := st.prizes[prizeID]; !ok {
		return models.ErrPrizeNotFound
	}
	delete(st.prizes, prizeID)
	for k, e := range st.events {
		if e.CurrentDrawPrizeID != nil && *e.CurrentDrawPrizeID == prizeID {
			e.CurrentDrawPrizeID = nil
			st.events[k] = e
		}
	}
	return nil
}

type memDrawRuns struct{ u *memUnitOfWork }

func (r memDrawRuns) Create(ctx context.Context, run *models.DrawRun) error {
	st := r.u.st()
	run.ID = st.id()
	run.CreatedAt = time.Now()
	st.drawRuns = append(st.drawRuns, *run)
	return nil
}

func (r memDrawRuns) ListByEvent(ctx context.Context, eventID int64) ([]*models.DrawRun, error) {
	var list []*models.DrawRun
	for i := len(r.u.st().drawRuns) - 1; i >= 0; i-- {
		run := r.u.st().drawRuns[i]
		if run.EventID == eventID {
			list = append(list, &run)
		}
	}
	return list, nil
}

type memWinners struct{ u *memUnitOfWork }

func (r memWinners) Create(ctx context.Context, winner *models.Winner) error {
	st := r.u.st()
	for _, w := range st.winners {
		if w.EventID == winner.EventID && w.AttendeeID == winner.AttendeeID {
			return models.ErrWinnerConflict
		}
	}
	winner.ID = st.id()
	st.winners = append(st.winners, *winner)
	return nil
}

func (r memWinners) ListByEvent(ctx context.Context, eventID int64, prizeID *int64) ([]*models.WinnerView, error) {
	st := r.u.st()
	var list []*models.WinnerView
	for i := len(st.winners) - 1; i >= 0; i-- {
		w := st.winners[i]
		if w.EventID != eventID || (prizeID != nil && w.PrizeID != *prizeID) {
			continue
		}
		list = append(list, &models.WinnerView{Winner: w, PrizeName: st.prizes[w.PrizeID].Name})
	}
	return list, nil
}

func (r memWinners) CountByPrize(ctx context.Context, prizeID int64) (int, error) {
	n := 0
	for _, w := range r.u.st().winners {
		if w.PrizeID == prizeID {
			n++
		}
	}
	return n, nil
}

func (r memWinners) ExistsByAttendee(ctx context.Context, attendeeID int64) (bool, error) {
	for _, w := range r.u.st().winners {
		if w.AttendeeID == attendeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memWinners) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	st := r.u.st()
	before := len(st.winners)
	st.winners = filterWinners(st.winners, func(w models.Winner) bool { return w.EventID != eventID })
	return int64(before - len(st.winners)), nil
}

func filterWinners(winners []models.Winner, keep func(models.Winner) bool) []models.Winner {
	kept := winners[:0:0]
	for _, w := range winners {
		if keep(w) {
			kept = append(kept, w)
		}
	}
	return kept
}
