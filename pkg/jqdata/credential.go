package jqdata

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
)

const (
	methodCurrentToken = "get_current_token"
	methodNewToken     = "get_token"
)

// Token is an immutable snapshot of the authentication token.
type Token struct {
	Value    string
	IssuedAt time.Time
}

// Credential is the mobile/password pair exchanged for a token.
type Credential struct {
	mobile   string
	password string
}

// Mobile returns the account mobile number.
func (c Credential) Mobile() string { return c.mobile }

func (c Credential) String() string {
	return "Credential{mobile: " + mask(c.mobile) + ", password: ***}"
}

func mask(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:3] + strings.Repeat("*", len(s)-3)
}

type exchangeFunc func(ctx context.Context, body []byte) ([]byte, error)

// credentials owns the token snapshot. Readers load the pointer; refresh
// performs the exchange without holding anything and swaps in one store.
type credentials struct {
	cred   *Credential
	method string
	token  atomic.Pointer[Token]
	now    func() time.Time
}

func newCredentials(cred *Credential, fresh bool) *credentials {
	m := methodCurrentToken
	if fresh {
		m = methodNewToken
	}
	return &credentials{cred: cred, method: m, now: time.Now}
}

func (c *credentials) snapshot() Token {
	if t := c.token.Load(); t != nil {
		return *t
	}
	return Token{}
}

func (c *credentials) install(value string) Token {
	t := &Token{Value: value, IssuedAt: c.now()}
	c.token.Store(t)
	return *t
}

func (c *credentials) canRefresh() bool { return c.cred != nil }

// refresh exchanges the credential for a new token. On any failure the
// previous snapshot stays authoritative.
func (c *credentials) refresh(ctx context.Context, post exchangeFunc) (Token, error) {
	if c.cred == nil {
		return Token{}, &Error{Kind: KindNoCredential, Message: "credential not available to refresh token"}
	}
	env, err := newEnvelope(c.method, tokenRequest{Mob: c.cred.mobile, Pwd: c.cred.password})
	if err != nil {
		return Token{}, err
	}
	body, err := env.encode()
	if err != nil {
		return Token{}, err
	}
	resp, err := post(ctx, body)
	if err != nil {
		return Token{}, withMethod(err, c.method)
	}
	value := strings.TrimSpace(string(resp))
	if strings.HasPrefix(value, sentinel) {
		return Token{}, withMethod(serverError(value), c.method)
	}
	if value == "" {
		return Token{}, withMethod(decodeError("empty token returned", nil), c.method)
	}
	// caller went away, keep the previous token
	if err := ctx.Err(); err != nil {
		return Token{}, withMethod(transportError("token exchange cancelled", err), c.method)
	}
	return c.install(value), nil
}

type tokenRequest struct {
	Mob string `json:"mob"`
	Pwd string `json:"pwd"`
}
