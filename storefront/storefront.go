// Package storefront wires the session, cart and view of one browser
// profile together. A Storefront is opened per request under the profile's
// lock, so its state is never shared between goroutines.
package storefront

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/cart"
	"github.com/junaidrashid-git/webshop/models"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storage"
	"github.com/junaidrashid-git/webshop/view"
)

// ErrMissingProfile is returned by Open without a profile id.
var ErrMissingProfile = errors.New("missing profile id")

// Factory opens storefronts on shared backends.
type Factory struct {
	durable  storage.Backend
	volatile storage.Backend
	users    session.Directory
	sync     *view.Synchronizer
	log      *zap.Logger
	opts     []session.Option
	locks    *profileLocks
}

// NewFactory returns a Factory. publisher may be nil; opts are passed to
// every session manager.
func NewFactory(durable, volatile storage.Backend, users session.Directory, publisher view.Publisher, log *zap.Logger, opts ...session.Option) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{
		durable:  durable,
		volatile: volatile,
		users:    users,
		sync:     view.NewSynchronizer(publisher, log),
		log:      log,
		opts:     opts,
		locks:    newProfileLocks(),
	}
}

// Storefront is the application state of one profile for one request.
type Storefront struct {
	profileID string
	tabID     string
	session   *session.Manager
	cart      *cart.Store
	sync      *view.Synchronizer
	log       *zap.Logger
	frame     view.Frame
}

// Open locks profileID, restores its session and loads its cart. The
// returned release func must be called when the request is done.
func (f *Factory) Open(ctx context.Context, profileID, tabID string) (*Storefront, func(), error) {
	if profileID == "" {
		return nil, nil, ErrMissingProfile
	}
	release := f.locks.acquire(profileID)

	durable := storage.NewBucket(f.durable, profileID)
	volatile := storage.NewBucket(f.volatile, VolatileScope(profileID, tabID))
	log := f.log.With(zap.String("profile", profileID))

	s := &Storefront{
		profileID: profileID,
		tabID:     tabID,
		sync:      f.sync,
		log:       log,
	}
	s.session = session.NewManager(durable, volatile, f.users, log, f.opts...)
	s.cart = cart.NewStore(durable, s.session, log)

	s.session.OnTransition(func(ctx context.Context, _ session.Transition) error {
		return s.cart.Load(ctx)
	})
	s.session.OnTransition(func(_ context.Context, t session.Transition) error {
		// Restoring happens on every request; only real changes are pushed.
		if t.Kind == session.TransitionRestore {
			return s.render()
		}
		return s.refresh()
	})

	if err := s.session.Restore(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("restore session: %w", err)
	}
	return s, release, nil
}

// VolatileScope is the tab-scoped storage of profileID. Tab ids come from
// the client, so the scope is bound to the profile that sent them.
func VolatileScope(profileID, tabID string) string {
	return profileID + "/" + tabID
}

// ProfileID of the storefront.
func (s *Storefront) ProfileID() string { return s.profileID }

// TabID is the volatile scope the session was restored from.
func (s *Storefront) TabID() string { return s.tabID }

// Identity is the signed-in identity, or nil for the guest.
func (s *Storefront) Identity() *models.Identity { return s.session.Current() }

// State of the session.
func (s *Storefront) State() session.State { return s.session.State() }

// Cart returns a copy of the current identity's cart.
func (s *Storefront) Cart() models.Cart { return s.cart.Items() }

// Frame is the last render.
func (s *Storefront) Frame() view.Frame { return s.frame }

func (s *Storefront) SignIn(ctx context.Context, c session.Credentials) (view.Frame, error) {
	if _, err := s.session.SignIn(ctx, c); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

func (s *Storefront) SignUp(ctx context.Context, form session.SignUpForm) (view.Frame, error) {
	if _, err := s.session.SignUp(ctx, form); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

func (s *Storefront) SocialSignIn(ctx context.Context, provider string) (view.Frame, error) {
	if _, err := s.session.SocialSignIn(ctx, provider); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

func (s *Storefront) Logout(ctx context.Context) (view.Frame, error) {
	if err := s.session.Logout(ctx); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

// AddItem adds one unit of name at price to the current cart.
func (s *Storefront) AddItem(ctx context.Context, name string, price float64) (view.Frame, error) {
	if err := s.cart.AddItem(ctx, name, price); err != nil {
		return view.Frame{}, err
	}
	s.log.Debug("item added", zap.String("cart", s.cart.Key()), zap.String("item", name))
	if err := s.refresh(); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

// RemoveItem drops name from the current cart. Unknown names are ignored.
func (s *Storefront) RemoveItem(ctx context.Context, name string) (view.Frame, error) {
	if err := s.cart.RemoveItem(ctx, name); err != nil {
		return view.Frame{}, err
	}
	if err := s.refresh(); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

func (s *Storefront) ClearCart(ctx context.Context) (view.Frame, error) {
	if err := s.cart.Clear(ctx); err != nil {
		return view.Frame{}, err
	}
	if err := s.refresh(); err != nil {
		return view.Frame{}, err
	}
	return s.frame, nil
}

func (s *Storefront) snapshot() view.Snapshot {
	return view.Snapshot{Identity: s.session.Current(), Cart: s.cart.Items()}
}

func (s *Storefront) render() error {
	frame, err := s.sync.Render(s.snapshot())
	if err != nil {
		return err
	}
	s.frame = frame
	return nil
}

func (s *Storefront) refresh() error {
	frame, err := s.sync.Refresh(s.profileID, s.snapshot())
	if err != nil {
		return err
	}
	s.frame = frame
	return nil
}
