package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/itbasis/go-clock"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, clk clock.Clock) (*AuthService, *ledger.Ledger) {
	t.Helper()
	kv := kvtest.New(t)
	l, err := ledger.New(context.Background(), kv, clk)
	require.NoError(t, err)
	return New(kv, l, clk, testSecret, time.Hour, []string{"Admin@Example.com"}), l
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	a, l := newTestService(t, clock.New())

	user, err := a.SignUp(ctx, SignUpRequestBody{UserName: "Alice", MailID: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsAdmin)

	stored, ok := l.GetUser(user.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", stored.Name)

	raw, err := a.KV.Get(ctx, "credentials_alice@example.com")
	require.NoError(t, err)
	assert.NotContains(t, raw, "s3cret")

	_, err = a.SignUp(ctx, SignUpRequestBody{UserName: "Alice 2", MailID: " ALICE@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = a.SignUp(ctx, SignUpRequestBody{UserName: "", MailID: "x@example.com", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidSignUp)

	admin, err := a.SignUp(ctx, SignUpRequestBody{UserName: "Root", MailID: "admin@example.com", Password: "p"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

type failingUsers struct {
	err error
	*ledger.Ledger
}

func (f failingUsers) RegisterUser(ctx context.Context, u ledger.User) error {
	return f.err
}

func TestSignUp_RegisterFailureDropsCredentials(t *testing.T) {
	ctx := context.Background()
	kv := kvtest.New(t)
	l, err := ledger.New(ctx, kv, clock.New())
	require.NoError(t, err)

	boom := errors.New("persist failed")
	a := New(kv, failingUsers{err: boom, Ledger: l}, clock.New(), testSecret, time.Hour, nil)
	body := SignUpRequestBody{UserName: "Alice", MailID: "alice@example.com", Password: "s3cret"}

	_, err = a.SignUp(ctx, body)
	assert.ErrorIs(t, err, boom)
	_, err = kv.Get(ctx, "credentials_alice@example.com")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	a.Users = l
	user, err := a.SignUp(ctx, body)
	require.NoError(t, err)
	_, got, err := a.Login(ctx, LoginRequestBody{MailID: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestService(t, clock.New())

	user, err := a.SignUp(ctx, SignUpRequestBody{UserName: "Alice", MailID: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	tests := map[string]struct {
		body      LoginRequestBody
		expectErr error
	}{
		"valid":          {body: LoginRequestBody{MailID: "alice@example.com", Password: "s3cret"}},
		"mixed case":     {body: LoginRequestBody{MailID: "Alice@Example.com", Password: "s3cret"}},
		"wrong password": {body: LoginRequestBody{MailID: "alice@example.com", Password: "nope"}, expectErr: ErrInvalidCredentials},
		"unknown mail":   {body: LoginRequestBody{MailID: "bob@example.com", Password: "s3cret"}, expectErr: ErrInvalidCredentials},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			token, u, err := a.Login(ctx, tc.body)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, u.ID)

			userID, err := a.Authenticate(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, userID)
		})
	}
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestService(t, clock.New())

	user, err := a.SignUp(ctx, SignUpRequestBody{UserName: "Alice", MailID: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	phone, _, err := a.Login(ctx, LoginRequestBody{MailID: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	// a second device; sign it with another expiry so the tokens differ
	laptop, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(2 * time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, a.KV.RPush(ctx, "session_token_"+user.ID, laptop))

	require.NoError(t, a.Logout(ctx, user.ID, phone))

	assert.False(t, a.CheckIfTokenIsWhiteListed(ctx, user.ID, phone))
	assert.True(t, a.CheckIfTokenIsWhiteListed(ctx, user.ID, laptop))

	_, err = a.Authenticate(ctx, phone)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken(t *testing.T) {
	a, _ := newTestService(t, clock.New())

	token, err := a.GenerateToken("user-1")
	require.NoError(t, err)
	userID, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	t.Run("wrong secret", func(t *testing.T) {
		other := New(kvtest.New(t), nil, clock.New(), "other-secret", time.Hour, nil)
		forged, err := other.GenerateToken("user-1")
		require.NoError(t, err)
		_, err = a.ValidateToken(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		// the mock clock starts at the unix epoch
		old := New(kvtest.New(t), nil, clock.NewMock(), testSecret, time.Hour, nil)
		expired, err := old.GenerateToken("user-1")
		require.NoError(t, err)
		_, err = a.ValidateToken(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
