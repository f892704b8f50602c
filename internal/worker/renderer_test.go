package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Payload
	}{
		{
			name: "empty object falls back to defaults",
			raw:  `{}`,
			want: Payload{Title: DefaultTitle, Body: DefaultBody, URL: DefaultURL},
		},
		{
			name: "empty payload falls back to defaults",
			raw:  ``,
			want: Payload{Title: DefaultTitle, Body: DefaultBody, URL: DefaultURL},
		},
		{
			name: "plain text becomes the body",
			raw:  `server restarting soon`,
			want: Payload{Title: DefaultTitle, Body: "server restarting soon", URL: DefaultURL},
		},
		{
			name: "structured payload passes through",
			raw:  `{"title":"New Booking","body":"Jane booked","url":"/staff?tab=schedule&appointmentId=apt-1","tag":"new_booking"}`,
			want: Payload{Title: "New Booking", Body: "Jane booked", URL: "/staff?tab=schedule&appointmentId=apt-1", Tag: "new_booking"},
		},
		{
			name: "partial payload gets defaults for the rest",
			raw:  `{"body":"only a body"}`,
			want: Payload{Title: DefaultTitle, Body: "only a body", URL: DefaultURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePayload([]byte(tt.raw)))
		})
	}
}

type fakeNotifier struct {
	mu     sync.Mutex
	shown  []Notification
	closed []string
}

func (n *fakeNotifier) Show(notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, notification)
	return nil
}

func (n *fakeNotifier) Close(tag string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, tag)
}

type fakeView struct {
	location string
	focused  bool
}

func (v *fakeView) Location() string { return v.location }
func (v *fakeView) Focus()           { v.focused = true }

type fakeRegistry struct {
	views   []View
	opened  []string
	claimed bool
}

func (r *fakeRegistry) Views() []View { return r.views }

func (r *fakeRegistry) Open(target string) (View, error) {
	r.opened = append(r.opened, target)
	v := &fakeView{location: target}
	r.views = append(r.views, v)
	return v, nil
}

func (r *fakeRegistry) Claim() { r.claimed = true }

func TestRenderer_HandlePush_EmptyPayloadStillDisplays(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRenderer(notifier, &fakeRegistry{}, "https://app.example.com", zap.NewNop())

	require.NoError(t, r.HandlePush([]byte(`{}`)))
	require.Len(t, notifier.shown, 1)
	assert.Equal(t, DefaultTitle, notifier.shown[0].Title)
	assert.Equal(t, DefaultURL, notifier.shown[0].URL)
}

func TestRenderer_HandleClick_FocusesMatchingView(t *testing.T) {
	notifier := &fakeNotifier{}
	open := &fakeView{location: "https://app.example.com/staff?tab=schedule&appointmentId=apt-1"}
	registry := &fakeRegistry{views: []View{open}}
	r := NewRenderer(notifier, registry, "https://app.example.com", zap.NewNop())

	err := r.HandleClick(Notification{URL: "/staff?tab=schedule&appointmentId=apt-1", Tag: "reschedule"})
	require.NoError(t, err)

	assert.True(t, open.focused, "existing view is focused, not duplicated")
	assert.Empty(t, registry.opened)
	assert.Equal(t, []string{"reschedule"}, notifier.closed)
}

func TestRenderer_HandleClick_OpensNewViewWhenNoneMatches(t *testing.T) {
	notifier := &fakeNotifier{}
	other := &fakeView{location: "https://app.example.com/settings"}
	registry := &fakeRegistry{views: []View{other}}
	r := NewRenderer(notifier, registry, "https://app.example.com", zap.NewNop())

	err := r.HandleClick(Notification{URL: "/staff?tab=schedule&appointmentId=apt-2"})
	require.NoError(t, err)

	assert.False(t, other.focused)
	require.Len(t, registry.opened, 1)
	assert.Equal(t, "https://app.example.com/staff?tab=schedule&appointmentId=apt-2", registry.opened[0])
}

func TestRenderer_Activate_ClaimsViews(t *testing.T) {
	registry := &fakeRegistry{}
	r := NewRenderer(&fakeNotifier{}, registry, "https://app.example.com", zap.NewNop())

	r.Activate()
	assert.True(t, registry.claimed)
}
