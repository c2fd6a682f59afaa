package client

import "context"

// Session is the explicit login state a front end carries instead of
// globals: who is logged in, if anyone, against which client.  The
// zero user plus ok=false means browsing anonymously, which every
// catalog screen supports.
type Session struct {
	client *Client
	user   User
	active bool
}

// NewSession wraps a client with empty login state.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Client returns the underlying API client.
func (s *Session) Client() *Client { return s.client }

// Restore validates a stored token against the server and, when it is
// still good, repopulates the session.  An invalid or expired token
// just leaves the session anonymous.
func (s *Session) Restore(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.client.SetToken("")
		return false
	}
	s.user = user
	s.active = true
	return true
}

// Login authenticates and records the user on success.
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.user = resp.User
	s.active = true
	return nil
}

// Signup registers an account and records it as logged in, matching the
// server behavior of issuing a session on signup.
func (s *Session) Signup(ctx context.Context, name, email, password string) error {
	resp, err := s.client.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	s.user = resp.User
	s.active = true
	return nil
}

// Logout ends the session.  Local state clears even if the server call
// fails; the token is gone either way.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.user = User{}
	s.active = false
	return err
}

// User returns the logged-in user and whether one exists.
func (s *Session) User() (User, bool) {
	return s.user, s.active
}

// LoggedIn reports whether the session is authenticated.
func (s *Session) LoggedIn() bool { return s.active }

// Admin reports whether the logged-in user is an administrator.
func (s *Session) Admin() bool { return s.active && s.user.IsAdmin }
