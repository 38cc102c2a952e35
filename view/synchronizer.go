// Package view renders the header and cart panel of the storefront as pure
// functions of the session identity and cart, and pushes each render to the
// open tabs of the profile.
//
// Rendered markup carries data-action attributes instead of per-element
// handlers; the page handles them by delegation on the region root, so a
// re-render never needs handlers bound again.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Snapshot is the state a render is computed from.
type Snapshot struct {
	Identity *models.Identity
	Cart     models.Cart
}

// HeaderState feeds the header template.
type HeaderState struct {
	SignedIn  bool
	Initials  string
	FullName  string
	Email     string
	CartCount int
}

// LineState is one cart panel row.
type LineState struct {
	Name     string
	Quantity int
	Subtotal string
}

// CartPanelState feeds the cart panel template.
type CartPanelState struct {
	Empty bool
	Lines []LineState
	Total string
}

// Frame is one complete render, sent to the page as JSON.
type Frame struct {
	Header    string `json:"header"`
	CartPanel string `json:"cartPanel"`
	CartCount int    `json:"cartCount"`
	Total     string `json:"total"`
	SignedIn  bool   `json:"signedIn"`
}

// Publisher delivers frames to the connections of a profile.
type Publisher interface {
	Publish(profileID string, frame Frame)
}

// HeaderFor derives the header state.
func HeaderFor(s Snapshot) HeaderState {
	h := HeaderState{CartCount: s.Cart.TotalCount()}
	if s.Identity != nil {
		h.SignedIn = true
		h.Initials = s.Identity.Initials()
		h.FullName = s.Identity.FullName()
		h.Email = s.Identity.Email
	}
	return h
}

// CartPanelFor derives the cart panel state. Lines are sorted by name.
func CartPanelFor(s Snapshot) CartPanelState {
	if len(s.Cart) == 0 {
		return CartPanelState{Empty: true}
	}
	lines := s.Cart.Lines()
	p := CartPanelState{
		Lines: make([]LineState, 0, len(lines)),
		Total: models.FormatPrice(s.Cart.TotalPrice()),
	}
	for _, l := range lines {
		p.Lines = append(p.Lines, LineState{
			Name:     l.Name,
			Quantity: l.Quantity,
			Subtotal: models.FormatPrice(l.Subtotal()),
		})
	}
	return p
}

// Synchronizer renders frames and hands them to a Publisher.
type Synchronizer struct {
	publisher Publisher
	log       *zap.Logger
}

// NewSynchronizer returns a Synchronizer. publisher may be nil.
func NewSynchronizer(publisher Publisher, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{publisher: publisher, log: log}
}

// Render builds the frame for snap.
func (s *Synchronizer) Render(snap Snapshot) (Frame, error) {
	header := HeaderFor(snap)
	panel := CartPanelFor(snap)

	var hb, pb bytes.Buffer
	if err := templates.ExecuteTemplate(&hb, "header", header); err != nil {
		return Frame{}, fmt.Errorf("render header: %w", err)
	}
	if err := templates.ExecuteTemplate(&pb, "cart_panel", panel); err != nil {
		return Frame{}, fmt.Errorf("render cart panel: %w", err)
	}
	return Frame{
		Header:    hb.String(),
		CartPanel: pb.String(),
		CartCount: header.CartCount,
		Total:     panel.Total,
		SignedIn:  header.SignedIn,
	}, nil
}

// Refresh renders snap and publishes it to every open tab of profileID.
func (s *Synchronizer) Refresh(profileID string, snap Snapshot) (Frame, error) {
	frame, err := s.Render(snap)
	if err != nil {
		return Frame{}, err
	}
	if s.publisher != nil {
		s.publisher.Publish(profileID, frame)
	}
	s.log.Debug("view refreshed", zap.String("profile", profileID), zap.Int("cart_count", frame.CartCount))
	return frame, nil
}
