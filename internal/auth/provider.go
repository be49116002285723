package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/models"
	"github.com/rohits-web03/optivus/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidInput       = errors.New("email and password are required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrOAuthDisabled      = errors.New("OAuth is not configured")
	ErrUnavailable        = errors.New("account store is not configured")
)

const (
	minPasswordLen     = 6
	userCacheTTL       = 5 * time.Minute
	oauthStateTTL      = 10 * time.Minute
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	providerEmail      = "email"
	providerGoogle     = "google"
	watcherBufferSize  = 8
	defaultSessionTTL  = 24 * time.Hour
	defaultRecoveryTTL = time.Hour
)

type Options struct {
	Users       *repositories.Users
	Bus         Bus
	Signer      *Signer
	OAuth       *oauth2.Config
	Mailer      Mailer
	Logger      *log.Logger
	SessionTTL  time.Duration
	RecoveryTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// UserInfoURL defaults to Google's userinfo endpoint.
	UserInfoURL string
}

// Provider owns sign-in state for the process. Construct it with NewProvider, call Start
// before serving and Close on shutdown.
type Provider struct {
	users       *repositories.Users
	bus         Bus
	signer      *Signer
	oauth       *oauth2.Config
	mailer      Mailer
	logger      *log.Logger
	sessionTTL  time.Duration
	recoveryTTL time.Duration
	cost        int
	userInfoURL string
	now         func() time.Time

	cache *sessionCache

	mu       sync.Mutex
	watchers map[uuid.UUID]map[chan Event]struct{}
	sub      Subscription
	quit     chan struct{}
	done     chan struct{}
}

func NewProvider(opts Options) *Provider {
	p := &Provider{
		users:       opts.Users,
		bus:         opts.Bus,
		signer:      opts.Signer,
		oauth:       opts.OAuth,
		mailer:      opts.Mailer,
		logger:      opts.Logger,
		sessionTTL:  opts.SessionTTL,
		recoveryTTL: opts.RecoveryTTL,
		cost:        opts.BcryptCost,
		userInfoURL: opts.UserInfoURL,
		now:         time.Now,
		watchers:    make(map[uuid.UUID]map[chan Event]struct{}),
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	if p.bus == nil {
		p.bus = NewLocalBus()
	}
	if p.mailer == nil {
		p.mailer = disabledMailer{}
	}
	if p.sessionTTL <= 0 {
		p.sessionTTL = defaultSessionTTL
	}
	if p.recoveryTTL <= 0 {
		p.recoveryTTL = defaultRecoveryTTL
	}
	if p.cost == 0 {
		p.cost = bcrypt.DefaultCost
	}
	if p.userInfoURL == "" {
		p.userInfoURL = googleUserInfoURL
	}
	p.cache = newSessionCache(userCacheTTL, p.sessionTTL, oauthStateTTL)
	return p
}

// Start subscribes to session changes. Events are applied until Close.
func (p *Provider) Start(ctx context.Context) error {
	sub, err := p.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to session events: %w", err)
	}

	p.mu.Lock()
	p.sub = sub
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	quit, done := p.quit, p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				p.apply(ev)
			case <-quit:
				return
			}
		}
	}()
	return nil
}

// Close unsubscribes, waits for the event loop and releases every watcher.
func (p *Provider) Close() error {
	p.mu.Lock()
	sub, quit, done := p.sub, p.quit, p.done
	p.sub = nil
	watchers := p.watchers
	p.watchers = make(map[uuid.UUID]map[chan Event]struct{})
	p.mu.Unlock()

	var err error
	if sub != nil {
		close(quit)
		err = sub.Close()
		<-done
	}
	for _, set := range watchers {
		for ch := range set {
			close(ch)
		}
	}
	p.cache.close()
	return err
}

func (p *Provider) apply(ev Event) {
	switch ev.Type {
	case EventSignedOut:
		if ev.SessionID != "" {
			p.cache.revoke(ev.SessionID)
		}
	case EventUserUpdated:
		p.cache.dropProfile(ev.UserID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.watchers[ev.UserID] {
		select {
		case ch <- ev:
		default:
			p.logger.Warn("session watcher is slow, dropping event", "user", ev.UserID, "event", ev.Type)
		}
	}
}

// Watch streams the user's session changes until cancel is called.
func (p *Provider) Watch(userID uuid.UUID) (events <-chan Event, cancel func()) {
	ch := make(chan Event, watcherBufferSize)

	p.mu.Lock()
	set, ok := p.watchers[userID]
	if !ok {
		set = make(map[chan Event]struct{})
		p.watchers[userID] = set
	}
	set[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if set, ok := p.watchers[userID]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(p.watchers, userID)
				}
			}
		})
	}
}

func (p *Provider) publish(ctx context.Context, ev Event) error {
	ev.At = p.now().UTC()
	if err := p.bus.Publish(ctx, ev); err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}
	return nil
}

// Session resolves a session token.
func (p *Provider) Session(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := p.signer.Parse(token)
	if err != nil || claims.Purpose != purposeSession || claims.ID == "" {
		return nil, ErrNoSession
	}
	if p.cache.isRevoked(claims.ID) {
		return nil, ErrNoSession
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrNoSession
	}
	user, err := p.profile(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	return &Session{
		ID:        claims.ID,
		User:      *user,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (p *Provider) profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	if u := p.cache.profile(userID); u != nil {
		return u, nil
	}
	if p.users == nil {
		return nil, ErrUnavailable
	}
	record, err := p.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := projectUser(record)
	p.cache.setProfile(userID, u)
	return u, nil
}

// issue signs a session token for the user and announces the sign-in.
func (p *Provider) issue(ctx context.Context, user *models.User) (*Session, string, error) {
	now := p.now()
	session := &Session{
		ID:        uuid.NewString(),
		User:      *projectUser(user),
		ExpiresAt: now.Add(p.sessionTTL),
	}
	token, err := p.signer.Sign(Claims{
		UserID:           user.ID.String(),
		Email:            user.Email,
		Purpose:          purposeSession,
		RegisteredClaims: registered(session.ID, now, session.ExpiresAt),
	})
	if err != nil {
		return nil, "", err
	}
	p.cache.setProfile(user.ID, &session.User)

	if err := p.publish(ctx, Event{Type: EventSignedIn, UserID: user.ID, SessionID: session.ID}); err != nil {
		p.logger.Warn("sign-in event not delivered", "user", user.ID, "err", err)
	}
	return session, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignInWithPassword returns the new session and its token.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*Session, string, error) {
	if p.users == nil {
		return nil, "", ErrUnavailable
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := p.users.ByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	} else if err != nil {
		return nil, "", err
	}
	if user.Password == "" {
		// account created through OAuth
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	return p.issue(ctx, user)
}

// SignUp creates a password account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*Session, string, error) {
	if p.users == nil {
		return nil, "", ErrUnavailable
	}
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || password == "" {
		return nil, "", ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrWeakPassword
	}

	_, err := p.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(name),
		Provider: providerEmail,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	return p.issue(ctx, user)
}

// SignOut revokes the session here and on every instance listening on the bus.
func (p *Provider) SignOut(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrNoSession
	}
	p.cache.revoke(s.ID)
	return p.publish(ctx, Event{Type: EventSignedOut, UserID: s.User.ID, SessionID: s.ID})
}

// RequestPasswordReset mails a recovery link to redirectURL. Unknown addresses succeed silently.
func (p *Provider) RequestPasswordReset(ctx context.Context, email, redirectURL string) error {
	if p.users == nil {
		return ErrUnavailable
	}
	// checked before the lookup so the answer does not depend on the address existing
	if _, off := p.mailer.(disabledMailer); off {
		return ErrMailDisabled
	}
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	user, err := p.users.ByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		p.logger.Debug("password reset for unknown email", "email", email)
		return nil
	} else if err != nil {
		return err
	}

	now := p.now()
	token, err := p.signer.Sign(Claims{
		UserID:           user.ID.String(),
		Email:            user.Email,
		Purpose:          purposeRecovery,
		RegisteredClaims: registered(uuid.NewString(), now, now.Add(p.recoveryTTL)),
	})
	if err != nil {
		return err
	}

	link, err := withQuery(redirectURL, "token", token)
	if err != nil {
		return err
	}
	if err := p.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	if err := p.publish(ctx, Event{Type: EventPasswordRecovery, UserID: user.ID}); err != nil {
		p.logger.Warn("recovery event not delivered", "user", user.ID, "err", err)
	}
	return nil
}

// UpdatePassword sets a new password using a recovery token.
func (p *Provider) UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error {
	if p.users == nil {
		return ErrUnavailable
	}
	claims, err := p.signer.Parse(recoveryToken)
	if err != nil || claims.Purpose != purposeRecovery {
		return ErrNoSession
	}
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ErrNoSession
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := p.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	p.cache.dropProfile(userID)
	if err := p.publish(ctx, Event{Type: EventUserUpdated, UserID: userID}); err != nil {
		p.logger.Warn("user update event not delivered", "user", userID, "err", err)
	}
	return nil
}

// OAuthURL returns the provider consent URL for flow ("signin" or "signup").
func (p *Provider) OAuthURL(flow string) (string, error) {
	if p.oauth == nil {
		return "", ErrOAuthDisabled
	}
	if flow == "" {
		flow = "signin"
	}
	state, nonce, err := GenerateState(map[string]string{"flow": flow})
	if err != nil {
		return "", err
	}
	p.cache.putState(nonce, p.now())
	return p.oauth.AuthCodeURL(state), nil
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthResult is a completed OAuth sign-in. Flow is the value recorded in the state.
type OAuthResult struct {
	Session *Session
	Token   string
	Flow    string
}

// ExchangeOAuth completes the redirect: it checks state, trades the code for a token,
// then finds or creates the account.
func (p *Provider) ExchangeOAuth(ctx context.Context, state, code string) (*OAuthResult, error) {
	if p.oauth == nil {
		return nil, ErrOAuthDisabled
	}
	if p.users == nil {
		return nil, ErrUnavailable
	}
	nonce, data, err := DecodeState(state)
	if err != nil {
		return nil, err
	}
	if !p.cache.takeState(nonce, p.now()) {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, errors.New("provider returned no email")
	}

	user, err := p.users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Email:     email,
			Name:      profile.Name,
			AvatarURL: profile.Picture,
			Provider:  providerGoogle,
		}
		if err := p.users.Create(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if profile.Name != user.Name || profile.Picture != user.AvatarURL {
			if err := p.users.UpdateProfile(ctx, user.ID, profile.Name, profile.Picture); err != nil {
				p.logger.Warn("failed to refresh profile", "user", user.ID, "err", err)
			} else {
				user.Name, user.AvatarURL = profile.Name, profile.Picture
			}
		}
	}

	session, sessionToken, err := p.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &OAuthResult{Session: session, Token: sessionToken, Flow: data["flow"]}, nil
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := sonic.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &profile, nil
}

func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
