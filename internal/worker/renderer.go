package worker

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied when a push payload is missing fields or cannot be
// parsed at all. A malformed push still surfaces a generic
// notification rather than silently dropping.
const (
	DefaultTitle = "New Booking Update"
	DefaultBody  = "You have a new schedule update."
	DefaultURL   = "/staff?tab=schedule"
)

// Payload is the structured push message a device receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag"`
}

// ParsePayload decodes a raw push message, treating it as JSON when
// possible and as a plain-text body otherwise. Missing fields get
// defaults, so an empty push still renders.
func ParsePayload(raw []byte) Payload {
	var p Payload
	trimmed := strings.TrimSpace(string(raw))
	if trimmed != "" {
		if err := json.Unmarshal(raw, &p); err != nil {
			p = Payload{Body: trimmed}
		}
	}

	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	return p
}

// Notification is a displayed system notification. URL rides along as
// the notification's associated data for click routing.
type Notification struct {
	Title string
	Body  string
	Tag   string
	URL   string
}

// Notifier displays and dismisses system notifications on the device.
type Notifier interface {
	Show(n Notification) error
	Close(tag string)
}

// View is one open application window.
type View interface {
	Location() string
	Focus()
}

// ViewRegistry enumerates and opens application views. Claim takes
// control of all currently open views so a freshly installed worker
// applies without a full page reload.
type ViewRegistry interface {
	Views() []View
	Open(target string) (View, error)
	Claim()
}

// Renderer is the device-side push worker: it displays incoming push
// messages and routes notification clicks to the right view, focusing
// an already-open one instead of spawning a duplicate.
type Renderer struct {
	notifier Notifier
	views    ViewRegistry
	origin   string
	logger   *zap.Logger
}

func NewRenderer(notifier Notifier, views ViewRegistry, origin string, logger *zap.Logger) *Renderer {
	return &Renderer{
		notifier: notifier,
		views:    views,
		origin:   strings.TrimRight(origin, "/"),
		logger:   logger,
	}
}

// Activate claims all open views, making this worker their controller
// immediately on install.
func (r *Renderer) Activate() {
	r.views.Claim()
}

// HandlePush parses one raw push message and displays it.
func (r *Renderer) HandlePush(raw []byte) error {
	p := ParsePayload(raw)
	return r.notifier.Show(Notification{
		Title: p.Title,
		Body:  p.Body,
		Tag:   p.Tag,
		URL:   p.URL,
	})
}

// HandleClick closes the clicked notification and navigates to its
// target: an open view whose location already matches is focused,
// otherwise a new view is opened at the target URL.
func (r *Renderer) HandleClick(n Notification) error {
	r.notifier.Close(n.Tag)

	target := r.absoluteURL(n.URL)
	for _, v := range r.views.Views() {
		if r.absoluteURL(v.Location()) == target {
			v.Focus()
			return nil
		}
	}

	_, err := r.views.Open(target)
	return err
}

// Run consumes raw push messages until the context ends. It claims the
// open views first so clicks route through this worker from the start.
func (r *Renderer) Run(ctx context.Context, pushes <-chan []byte) {
	r.Activate()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-pushes:
			if !ok {
				return
			}
			if err := r.HandlePush(raw); err != nil {
				r.logger.Warn("failed to display notification", zap.Error(err))
			}
		}
	}
}

func (r *Renderer) absoluteURL(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return r.origin + "/" + strings.TrimLeft(target, "/")
	}
	if u.IsAbs() {
		return target
	}
	return r.origin + "/" + strings.TrimLeft(target, "/")
}
