package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dvws-go/dvws/internal/audit"
	"github.com/dvws-go/dvws/internal/cache"
	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
	"github.com/dvws-go/dvws/internal/store/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServices(t *testing.T) (Services, *jwtx.Issuer, *jwtx.Revocations) {
	t.Helper()
	iss := jwtx.NewIssuer("https://github.com/dipyamanroy", []byte("secret"), time.Hour)
	rev := jwtx.NewRevocations(cache.NewMemory("t"))
	s := NewServices(Deps{
		Users:       memory.New(),
		Issuer:      iss,
		Revocations: rev,
		Hash:        password.Fast,
	})
	return s, iss, rev
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s, iss, _ := newTestServices(t)

	u, err := s.Register.Register(ctx, dto.CredentialsRequest{Username: " alice ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.NotEmpty(t, u.ID)

	_, err = s.Register.Register(ctx, dto.CredentialsRequest{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	res, err := s.Login.Login(ctx, dto.CredentialsRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := iss.Verify(res.Token, iss.RESTOptions())
	require.NoError(t, err)
	require.Equal(t, "alice", claims["user"])
	require.Equal(t, u.ID, claims["sub"])
	require.ElementsMatch(t, []any{PermUserRead, PermUserWrite}, claims["permissions"])
}

func TestRegister_MissingFields(t *testing.T) {
	s, _, _ := newTestServices(t)
	_, err := s.Register.Register(context.Background(), dto.CredentialsRequest{Username: "  "})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestRegister_InvalidUsername(t *testing.T) {
	s, _, _ := newTestServices(t)
	_, err := s.Register.Register(context.Background(), dto.CredentialsRequest{Username: "two words", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidUsername)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestServices(t)
	_, err := s.Register.Register(ctx, dto.CredentialsRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	_, err = s.Login.Login(ctx, dto.CredentialsRequest{Username: "bob", Password: "nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login.Login(ctx, dto.CredentialsRequest{Username: "ghost", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_AuditEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))
	s, _, _ := newTestServices(t)

	_, err := s.Register.Register(ctx, dto.CredentialsRequest{Username: "erin", Password: "pw"})
	require.NoError(t, err)
	_, err = s.Login.Login(ctx, dto.CredentialsRequest{Username: "erin", Password: "bad"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login.Login(ctx, dto.CredentialsRequest{Username: "erin", Password: "pw"})
	require.NoError(t, err)

	audits := logs.FilterLoggerName("audit").All()
	require.Len(t, audits, 3)
	require.Equal(t, audit.EventRegister, audits[0].Message)
	require.Equal(t, audit.EventLoginFailure, audits[1].Message)
	require.Equal(t, "bad_password", audits[1].ContextMap()["reason"])
	require.Equal(t, audit.EventLoginSuccess, audits[2].Message)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestServices(t)
	_, err := s.Register.Register(ctx, dto.CredentialsRequest{Username: "carol", Password: "pw"})
	require.NoError(t, err)

	me, err := s.Session.Me(ctx, map[string]any{"user": "carol"})
	require.NoError(t, err)
	require.NotNil(t, me.User)
	require.Equal(t, "carol", me.User.Username)

	// un token sin firmar puede nombrar a un usuario inexistente
	me, err = s.Session.Me(ctx, map[string]any{"user": "ghost"})
	require.NoError(t, err)
	require.Nil(t, me.User)
	require.Equal(t, "ghost", me.Claims["user"])
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	s, iss, rev := newTestServices(t)

	tok, _, err := iss.Sign(map[string]any{"user": "dave"})
	require.NoError(t, err)
	claims, err := iss.Verify(tok, iss.RESTOptions())
	require.NoError(t, err)

	require.NoError(t, s.Session.Logout(ctx, tok, claims))
	revoked, err := rev.IsRevoked(ctx, tok, claims)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestClaimsFor_Admin(t *testing.T) {
	c := ClaimsFor(&store.User{ID: "1", Username: "admin", Admin: true})
	require.Equal(t, []string{PermUserRead, PermUserWrite, PermUserAdmin}, c["permissions"])
}
