package services

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invently_backend/internal/auth"
	"invently_backend/internal/config"
	"invently_backend/internal/email"
	"invently_backend/internal/models"
	"invently_backend/internal/repositories"
	"invently_backend/internal/services/dto"
	"invently_backend/pkg/apperrors"
)

// ---- in-memory fakes ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, emailAddr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == emailAddr {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Photo = user.Photo
	stored.Phone = user.Phone
	stored.Bio = user.Bio
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ *gorm.DB, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.PasswordHash = passwordHash
	return nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken // by user ID
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (r *fakeResetRepo) Replace(_ *gorm.DB, token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.UserID] = &copied
	return nil
}

func (r *fakeResetRepo) FindByUserID(_ *gorm.DB, userID string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[userID]
	if !ok {
		return nil, repositories.ErrResetTokenNotFound
	}
	copied := *token
	return &copied, nil
}

// Consume mirrors the single-statement semantics of the real
// implementation: match-and-delete under one lock.
func (r *fakeResetRepo) Consume(_ *gorm.DB, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, token := range r.tokens {
		if token.TokenHash == tokenHash && token.ExpiresAt.After(now) {
			delete(r.tokens, userID)
			copied := *token
			return &copied, nil
		}
	}
	return nil, repositories.ErrResetTokenNotFound
}

// expire backdates the stored token for a user.
func (r *fakeResetRepo) expire(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[userID]; ok {
		token.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	fail bool
}

func (m *fakeMailer) Send(msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *msg)
	if m.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *fakeMailer) lastBody(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1].Body
}

// ---- helpers ----

type authFixture struct {
	svc    AuthService
	users  *fakeUserRepo
	resets *fakeResetRepo
	mailer *fakeMailer
	cfg    *config.Config
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Auth.FrontendURL = "http://localhost:3000"
	cfg.Email.FromEmail = "noreply@test.local"

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret)
	require.NoError(t, err)

	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	mailer := &fakeMailer{}

	return &authFixture{
		svc:    NewAuthService(users, resets, mailer, tokens, cfg),
		users:  users,
		resets: resets,
		mailer: mailer,
		cfg:    cfg,
	}
}

func (f *authFixture) register(t *testing.T, emailAddr, password string) *dto.AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Test User",
		Email:    emailAddr,
		Password: password,
	})
	require.NoError(t, err)
	return resp
}

// resetSecretFromEmail pulls the plaintext secret back out of the
// reset link in the last email body.
func resetSecretFromEmail(t *testing.T, body string) string {
	t.Helper()
	const marker = "/resetPassword/"
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0, "reset link missing from email")
	rest := body[idx+len(marker):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

// ---- tests ----

func TestRegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "a@x.com", "secret1")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, models.DefaultPhoto, resp.User.Photo)
	assert.Equal(t, models.DefaultPhone, resp.User.Phone)

	loginResp, err := f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, loginResp.Token)
}

func TestRegisterAndLogin_EmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "A@X.com", "secret1")
	assert.Equal(t, "a@x.com", resp.User.Email)

	// Case variants of the stored address log in.
	_, err := f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.NoError(t, err)
	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: " A@x.COM ", Password: "secret1"})
	assert.NoError(t, err)

	// And cannot register a second account for the same mailbox.
	_, err = f.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Other",
		Email:    "a@x.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRequestReset_EmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "A@X.COM"))
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))
	assert.NoError(t, f.svc.ResetPassword(nil, secret, "secret2"))
}

func TestRegister_HashesPassword(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "a@x.com", "secret1")

	stored, err := f.users.FindByID(nil, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("secret1", stored.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	_, err := f.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Other",
		Email:    "a@x.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Test",
		Email:    "a@x.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestLogin_UniformFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	// Wrong password and unknown email fail identically.
	_, err := f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "a@x.com", "secret1")

	err := f.svc.ChangePassword(nil, resp.User.ID, "wrong", "secret2")
	assert.ErrorIs(t, err, apperrors.ErrWrongOldPassword)

	err = f.svc.ChangePassword(nil, resp.User.ID, "secret1", "secret2")
	require.NoError(t, err)

	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))

	// Only the hash is persisted.
	stored, err := f.resets.FindByUserID(nil, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.HashResetSecret(secret), stored.TokenHash)
	assert.NotEqual(t, secret, stored.TokenHash)
	assert.WithinDuration(t, time.Now().Add(ResetTokenTTL), stored.ExpiresAt, 5*time.Second)

	require.NoError(t, f.svc.ResetPassword(nil, secret, "secret2"))

	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Login(nil, &dto.LoginRequest{Email: "a@x.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestRequestReset_ReplacesPreviousToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	firstSecret := resetSecretFromEmail(t, f.mailer.lastBody(t))

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	secondSecret := resetSecretFromEmail(t, f.mailer.lastBody(t))
	require.NotEqual(t, firstSecret, secondSecret)

	// The first secret is permanently unusable.
	err := f.svc.ResetPassword(nil, firstSecret, "secret2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	assert.NoError(t, f.svc.ResetPassword(nil, secondSecret, "secret2"))
}

func TestResetPassword_SecondRedeemFails(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))

	require.NoError(t, f.svc.ResetPassword(nil, secret, "secret2"))

	err := f.svc.ResetPassword(nil, secret, "secret3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newAuthFixture(t)
	resp := f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))

	// The record still exists physically; its window has passed.
	f.resets.expire(resp.User.ID)

	err := f.svc.ResetPassword(nil, secret, "secret2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPassword_GarbageSecret(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResetPassword(nil, "no-such-secret", "secret2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestRequestReset_UnknownEmail_Revealed(t *testing.T) {
	// Unset config means reveal, matching the documented default.
	f := newAuthFixture(t)

	err := f.svc.RequestPasswordReset(nil, "nobody@x.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, f.mailer.sent)
}

func TestRequestReset_UnknownEmail_Suppressed(t *testing.T) {
	f := newAuthFixture(t)
	suppress := false
	f.cfg.Auth.RevealUnknownEmail = &suppress

	err := f.svc.RequestPasswordReset(nil, "nobody@x.com")
	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
}

func TestRequestReset_EmailFailureKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")
	f.mailer.fail = true

	err := f.svc.RequestPasswordReset(nil, "a@x.com")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)

	// The token committed before the send and stays redeemable.
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))
	assert.NoError(t, f.svc.ResetPassword(nil, secret, "secret2"))
}

func TestResetPassword_ConcurrentRedeem(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "secret1")

	require.NoError(t, f.svc.RequestPasswordReset(nil, "a@x.com"))
	secret := resetSecretFromEmail(t, f.mailer.lastBody(t))

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.svc.ResetPassword(nil, secret, "secret2")
		}()
	}
	wg.Wait()
	close(results)

	var successes, invalid int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.ErrInvalidResetToken):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one redeem must win")
	assert.Equal(t, 1, invalid)
}
