package domain

import (
	"context"
	"fmt"
	"sync"
)

// fakeStore is an in-memory stand-in for the Postgres repository,
// covering the appointment, staff, and subscription interfaces.
type fakeStore struct {
	mu            sync.Mutex
	appointments  map[string]*Appointment
	staff         map[string]*Staff
	subscriptions map[string]*Subscription
	nextID        int

	updateHook func() // runs inside UpdateAppointmentSchedule, before the write
	updateErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appointments:  make(map[string]*Appointment),
		staff:         make(map[string]*Staff),
		subscriptions: make(map[string]*Subscription),
	}
}

func (f *fakeStore) seedStaff(staff ...*Staff) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range staff {
		f.staff[st.ID] = st
	}
}

func (f *fakeStore) seedAppointment(appt *Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appointments[appt.ID] = appt
}

func (f *fakeStore) seedSubscription(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions[sub.ID] = sub
}

func (f *fakeStore) CreateAppointment(ctx context.Context, params CreateAppointmentParams) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	appt := &Appointment{
		ID:         fmt.Sprintf("apt-%d", f.nextID),
		ClientName: params.ClientName,
		StaffID:    params.StaffID,
		Date:       params.Date,
		TimeSlot:   params.TimeSlot,
		Status:     StatusConfirmed,
	}
	f.appointments[appt.ID] = appt
	return appt, nil
}

func (f *fakeStore) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeStore) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Appointment
	for _, appt := range f.appointments {
		copied := *appt
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) UpdateAppointmentSchedule(ctx context.Context, id string, params UpdateAppointmentParams) (*Appointment, error) {
	if f.updateHook != nil {
		f.updateHook()
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt.Date = params.Date
	appt.TimeSlot = params.TimeSlot
	appt.StaffID = params.StaffID
	copied := *appt
	return &copied, nil
}

func (f *fakeStore) CancelAppointment(ctx context.Context, id string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt.Status = StatusCancelled
	copied := *appt
	return &copied, nil
}

func (f *fakeStore) GetStaffByID(ctx context.Context, id string) (*Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *fakeStore) ListStaff(ctx context.Context) ([]*Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Staff
	for _, st := range f.staff {
		copied := *st
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &Subscription{
		ID:       fmt.Sprintf("sub-%d", f.nextID),
		UserID:   params.UserID,
		Endpoint: params.Endpoint,
		P256dh:   params.P256dh,
		Auth:     params.Auth,
	}
	f.subscriptions[sub.ID] = sub
	return sub, nil
}

func (f *fakeStore) GetSubscriptionsByUser(ctx context.Context, userID string) ([]*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Subscription
	for _, sub := range f.subscriptions {
		if sub.UserID == userID {
			copied := *sub
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteSubscription(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscriptions, id)
	return nil
}

// recordingDispatcher captures dispatched events synchronously.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event NotificationEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Events() []NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]NotificationEvent(nil), d.events...)
}

// stubSender fails for configured endpoints and succeeds otherwise.
type stubSender struct {
	mu       sync.Mutex
	failures map[string]error // endpoint -> error
	sent     []string
}

func newStubSender() *stubSender {
	return &stubSender{failures: make(map[string]error)}
}

func (s *stubSender) failEndpoint(endpoint string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = err
}

func (s *stubSender) Send(ctx context.Context, sub Subscription, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failures[sub.Endpoint]; ok {
		return err
	}
	s.sent = append(s.sent, sub.Endpoint)
	return nil
}

func (s *stubSender) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}
