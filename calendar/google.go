// Package calendar mirrors bookings into the customer's Google Calendar. Each
// user's OAuth2 credentials live on their user row; expired access tokens are
// refreshed and persisted before any event call.
package calendar

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/meinhoongagan/senior-care-app/config"
	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/metrics"
	"github.com/meinhoongagan/senior-care-app/models"
)

const (
	calendarID = "primary"
	stateTTL   = 10 * time.Minute
)

// Event is the calendar-visible part of a booking.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// UserStore is the slice of the user repository the adapter needs.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	SaveCalendarToken(ctx context.Context, id uint, accessToken, refreshToken string, expiry time.Time) error
	ClearCalendarToken(ctx context.Context, id uint) error
}

type Google struct {
	oauth    *oauth2.Config
	users    UserStore
	states   StateStore
	endpoint string
	now      func() time.Time
}

type Option func(*Google)

// WithEndpoint points Calendar API calls at another base URL.
func WithEndpoint(endpoint string) Option {
	return func(g *Google) { g.endpoint = endpoint }
}

// WithOAuthEndpoint replaces Google's authorization and token URLs.
func WithOAuthEndpoint(ep oauth2.Endpoint) Option {
	return func(g *Google) {
		if g.oauth != nil {
			g.oauth.Endpoint = ep
		}
	}
}

// NewGoogle builds the adapter. Without client credentials every operation
// reports NotSupported and HasConnection is always false.
func NewGoogle(cfg config.GoogleConfig, users UserStore, states StateStore, opts ...Option) *Google {
	g := &Google{users: users, states: states, now: time.Now}
	if cfg.Enabled() {
		g.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gcal.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Google) Enabled() bool {
	return g != nil && g.oauth != nil
}

func errNotConfigured() error {
	return errors.WithType(errors.New("Google Calendar is not configured"), errors.NotSupported)
}

// AuthURL returns the consent URL for userID. The state parameter is a random
// nonce bound to the user server-side.
func (g *Google) AuthURL(ctx context.Context, userID uint) (string, error) {
	if !g.Enabled() {
		return "", errNotConfigured()
	}
	state := uuid.NewString()
	if err := g.states.Save(ctx, state, userID, stateTTL); err != nil {
		return "", errors.Annotate(err, "failed to store oauth state")
	}
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange completes the consent flow and stores the credentials on the user
// the state was issued to.
func (g *Google) Exchange(ctx context.Context, code, state string) (uint, error) {
	if !g.Enabled() {
		return 0, errNotConfigured()
	}
	if code == "" || state == "" {
		return 0, errors.WithType(errors.New("missing code or state"), errors.BadRequest)
	}

	userID, err := g.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return 0, errors.WithType(errors.New("invalid or expired state"), errors.BadRequest)
		}
		return 0, errors.Trace(err)
	}

	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return userID, errors.Annotate(err, "token exchange failed")
	}

	refresh := tok.RefreshToken
	if refresh == "" {
		user, err := g.users.FindByID(ctx, userID)
		if err != nil {
			return userID, errors.Trace(err)
		}
		if user.GoogleRefreshToken != nil {
			refresh = *user.GoogleRefreshToken
		}
	}
	if err := g.users.SaveCalendarToken(ctx, userID, tok.AccessToken, refresh, tok.Expiry); err != nil {
		return userID, errors.Trace(err)
	}
	return userID, nil
}

// Disconnect forgets the user's stored credentials.
func (g *Google) Disconnect(ctx context.Context, userID uint) error {
	return errors.Trace(g.users.ClearCalendarToken(ctx, userID))
}

func (g *Google) HasConnection(ctx context.Context, userID uint) (bool, error) {
	if !g.Enabled() {
		return false, nil
	}
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return false, errors.Trace(err)
	}
	return user.HasCalendarConnection(), nil
}

// token loads the user's credentials, refreshing and persisting them first
// when the stored expiry has passed.
func (g *Google) token(ctx context.Context, userID uint) (*oauth2.Token, error) {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !user.HasCalendarConnection() {
		return nil, errors.NotFoundf("calendar connection for user %d", userID)
	}

	tok := &oauth2.Token{RefreshToken: *user.GoogleRefreshToken, TokenType: "Bearer"}
	if user.GoogleAccessToken != nil {
		tok.AccessToken = *user.GoogleAccessToken
	}
	if user.GoogleTokenExpiry != nil {
		tok.Expiry = *user.GoogleTokenExpiry
	}
	if tok.AccessToken != "" && tok.Expiry.After(g.now()) {
		return tok, nil
	}

	refreshed, err := g.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	metrics.RecordCalendarOp("refresh", err)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to refresh calendar token for user %d", userID)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := g.users.SaveCalendarToken(ctx, userID, refreshed.AccessToken, refreshed.RefreshToken, refreshed.Expiry); err != nil {
		return nil, errors.Trace(err)
	}
	logging.Debug().Uint("user_id", userID).Msg("Refreshed calendar token")
	return refreshed, nil
}

func (g *Google) service(ctx context.Context, userID uint) (*gcal.Service, error) {
	if !g.Enabled() {
		return nil, errNotConfigured()
	}
	tok, err := g.token(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to create calendar client")
	}
	return srv, nil
}

func toGoogleEvent(ev Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
	}
}

// CreateEvent inserts the event into the user's primary calendar and returns its id.
func (g *Google) CreateEvent(ctx context.Context, userID uint, ev Event) (string, error) {
	srv, err := g.service(ctx, userID)
	if err != nil {
		metrics.RecordCalendarOp("create", err)
		return "", err
	}
	created, err := srv.Events.Insert(calendarID, toGoogleEvent(ev)).Context(ctx).Do()
	metrics.RecordCalendarOp("create", err)
	if err != nil {
		return "", errors.Annotate(err, "failed to create calendar event")
	}
	return created.Id, nil
}

func (g *Google) UpdateEvent(ctx context.Context, userID uint, eventID string, ev Event) error {
	srv, err := g.service(ctx, userID)
	if err != nil {
		metrics.RecordCalendarOp("update", err)
		return err
	}
	_, err = srv.Events.Patch(calendarID, eventID, toGoogleEvent(ev)).Context(ctx).Do()
	metrics.RecordCalendarOp("update", err)
	return errors.Annotatef(err, "failed to update calendar event %s", eventID)
}

// DeleteEvent removes the event. An event that is already gone counts as deleted.
func (g *Google) DeleteEvent(ctx context.Context, userID uint, eventID string) error {
	srv, err := g.service(ctx, userID)
	if err != nil {
		metrics.RecordCalendarOp("delete", err)
		return err
	}
	err = srv.Events.Delete(calendarID, eventID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		err = nil
	}
	metrics.RecordCalendarOp("delete", err)
	return errors.Annotatef(err, "failed to delete calendar event %s", eventID)
}
