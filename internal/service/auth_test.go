package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/validation"
)

type authFixture struct {
	svc    *AuthService
	repo   *fakeUserRepo
	hasher *PasswordHasher
	mailer *recordingMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeUserRepo(t)
	hasher := newTestHasher()
	resolver := NewIdentityResolver(repo)
	resolver.now = stepClock()
	mailer := &recordingMailer{}

	svc := NewAuthService(repo, hasher, resolver, newTestSessions(t), mailer)
	svc.now = stepClock()

	return &authFixture{svc: svc, repo: repo, hasher: hasher, mailer: mailer}
}

func (f *authFixture) seedCredentialUser(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{
		Name:         "Ada",
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		IsActive:     active,
		AuthProvider: model.ProviderCredentials,
	}
	require.NoError(t, f.repo.Create(context.Background(), u))
	return u
}

func signUpInput(email string) validation.SignUpInput {
	return validation.SignUpInput{
		Name:            "Ada Lovelace",
		Email:           email,
		Password:        "Secret#1",
		ConfirmPassword: "Secret#1",
	}
}

func TestSignInCredentials_Success(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedCredentialUser(t, "ada@example.com", "Secret#1", true)

	u, err := f.svc.SignInCredentials(context.Background(), " ADA@example.com", "Secret#1")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)
	assert.NotNil(t, u.LastLoginAt)
}

func TestSignInCredentials_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		seed       func(t *testing.T, f *authFixture)
		email      string
		password   string
		wantKind   error
		wantReason apperror.Reason
		wantMsg    string
	}{
		{
			name:     "shape checked first",
			email:    "",
			password: "",
			wantKind: apperror.ErrValidation,
			wantMsg:  "Email and password are required",
		},
		{
			name:       "unknown email",
			email:      "ghost@example.com",
			password:   "Secret#1",
			wantKind:   apperror.ErrAuthentication,
			wantReason: apperror.ReasonInvalidCredentials,
			wantMsg:    "Invalid email or password",
		},
		{
			name: "wrong password",
			seed: func(t *testing.T, f *authFixture) {
				f.seedCredentialUser(t, "ada@example.com", "Secret#1", true)
			},
			email:      "ada@example.com",
			password:   "Secret#2",
			wantKind:   apperror.ErrAuthentication,
			wantReason: apperror.ReasonInvalidCredentials,
			wantMsg:    "Invalid email or password",
		},
		{
			name: "disabled even with correct password",
			seed: func(t *testing.T, f *authFixture) {
				f.seedCredentialUser(t, "ada@example.com", "Secret#1", false)
			},
			email:      "ada@example.com",
			password:   "Secret#1",
			wantKind:   apperror.ErrAuthentication,
			wantReason: apperror.ReasonDisabled,
			wantMsg:    "Your account has been disabled. Please contact support.",
		},
		{
			name: "oauth-only account",
			seed: func(t *testing.T, f *authFixture) {
				require.NoError(t, f.repo.Create(context.Background(), &model.User{
					Name: "Ada", Email: "ada@example.com", IsActive: true, AuthProvider: model.ProviderGoogle,
				}))
			},
			email:      "ada@example.com",
			password:   "Secret#1",
			wantKind:   apperror.ErrAuthentication,
			wantReason: apperror.ReasonOAuthOnly,
			wantMsg:    "This account uses social login. Please sign in with your social account.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.seed != nil {
				tt.seed(t, f)
			}

			u, err := f.svc.SignInCredentials(context.Background(), tt.email, tt.password)
			assert.Nil(t, u)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantReason, apperror.ReasonOf(err))

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestSignInCredentials_LastLoginFailureIsSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.seedCredentialUser(t, "ada@example.com", "Secret#1", true)
	f.repo.updErr = errors.New("write timeout")

	u, err := f.svc.SignInCredentials(context.Background(), "ada@example.com", "Secret#1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestSignInCredentials_DirectoryDown(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.findErr = errors.New("connection refused")

	_, err := f.svc.SignInCredentials(context.Background(), "ada@example.com", "Secret#1")
	assert.ErrorIs(t, err, apperror.ErrInfrastructure)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Internal server error", appErr.Message)
}

func TestSignInCredentials_CorruptHashIsInfrastructure(t *testing.T) {
	f := newAuthFixture(t)
	bad := "not-a-hash"
	require.NoError(t, f.repo.Create(context.Background(), &model.User{
		Name: "Ada", Email: "ada@example.com", PasswordHash: &bad, IsActive: true, AuthProvider: model.ProviderCredentials,
	}))

	_, err := f.svc.SignInCredentials(context.Background(), "ada@example.com", "Secret#1")
	assert.ErrorIs(t, err, apperror.ErrInfrastructure)
	assert.NotErrorIs(t, err, apperror.ErrAuthentication)
}

func TestSignUp_CreatesCredentialUser(t *testing.T) {
	f := newAuthFixture(t)

	u, err := f.svc.SignUp(context.Background(), signUpInput("Ada@Example.com"))
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, model.ProviderCredentials, u.AuthProvider)
	assert.True(t, u.HasPassword())
	assert.True(t, u.IsActive)
	assert.Equal(t, model.DefaultNotificationPreferences(), u.NotificationPreferences)
	assert.Equal(t, []string{"ada@example.com"}, f.mailer.sent)

	ok, err := f.hasher.Verify("Secret#1", *u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignUp_DuplicateEmailVariants(t *testing.T) {
	for _, email := range []string{"a@b.com", "A@B.COM", "  a@b.com  "} {
		t.Run(email, func(t *testing.T) {
			f := newAuthFixture(t)
			f.seedCredentialUser(t, "a@b.com", "Secret#1", true)

			_, err := f.svc.SignUp(context.Background(), signUpInput(email))
			assert.ErrorIs(t, err, apperror.ErrConflict)
			assert.Equal(t, 1, f.repo.len())
		})
	}
}

func TestSignUp_StorageLevelDuplicateIsConflict(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.createHook = func() {
		f.seedCredentialUser(t, "a@b.com", "Secret#1", true)
	}

	_, err := f.svc.SignUp(context.Background(), signUpInput("a@b.com"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, f.repo.len())
}

func TestSignUp_ValidationDetails(t *testing.T) {
	f := newAuthFixture(t)
	in := signUpInput("a@b.com")
	in.ConfirmPassword = "different"

	_, err := f.svc.SignUp(context.Background(), in)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Passwords do not match", appErr.Details["confirmPassword"])
	assert.Zero(t, f.repo.len())
}

func TestSignUp_WelcomeEmailFailureIsSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("resend down")

	_, err := f.svc.SignUp(context.Background(), signUpInput("a@b.com"))
	assert.NoError(t, err)
}

func TestSignInFederated(t *testing.T) {
	t.Run("new user is created and signed in", func(t *testing.T) {
		f := newAuthFixture(t)
		res, err := f.svc.SignInFederated(context.Background(), googleProfile())
		require.NoError(t, err)
		require.NotNil(t, res.User)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, model.ProviderGoogle, res.User.AuthProvider)
	})

	t.Run("credentials user keeps provider", func(t *testing.T) {
		f := newAuthFixture(t)
		seeded := f.seedCredentialUser(t, "ada@example.com", "Secret#1", true)

		res, err := f.svc.SignInFederated(context.Background(), googleProfile())
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, res.User.ID)
		assert.Equal(t, model.ProviderCredentials, res.User.AuthProvider)
	})

	t.Run("disabled account is redirected", func(t *testing.T) {
		f := newAuthFixture(t)
		seeded := f.seedCredentialUser(t, "ada@example.com", "Secret#1", false)

		res, err := f.svc.SignInFederated(context.Background(), googleProfile())
		require.NoError(t, err)
		assert.Nil(t, res.User)
		assert.Equal(t, "/auth/error?error=AccountDisabled", res.Redirect)

		stored, err := f.repo.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.LastLoginAt, "disabled record is not touched")
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newAuthFixture(t)
		p := googleProfile()
		p.Provider = "facebook"

		_, err := f.svc.SignInFederated(context.Background(), p)
		assert.ErrorIs(t, err, apperror.ErrAuthentication)
		assert.Equal(t, apperror.ReasonUnsupportedProvider, apperror.ReasonOf(err))
	})

	t.Run("credentials is not a federated provider", func(t *testing.T) {
		f := newAuthFixture(t)
		p := googleProfile()
		p.Provider = model.ProviderCredentials

		_, err := f.svc.SignInFederated(context.Background(), p)
		assert.Equal(t, apperror.ReasonUnsupportedProvider, apperror.ReasonOf(err))
	})

	t.Run("missing email", func(t *testing.T) {
		f := newAuthFixture(t)
		p := googleProfile()
		p.Email = ""

		_, err := f.svc.SignInFederated(context.Background(), p)
		assert.ErrorIs(t, err, apperror.ErrIdentity)
	})
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	seeded := f.seedCredentialUser(t, "ada@example.com", "Secret#1", true)

	admin := model.RoleAdmin
	bio := "Promoted"
	_, err := f.repo.Update(ctx, seeded.ID, model.UserUpdate{Role: &admin, Bio: &bio})
	require.NoError(t, err)

	u, err := f.svc.Refresh(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, claims, err := f.svc.Sessions().Issue(u)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "Promoted", claims.Bio)

	_, err = f.svc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
