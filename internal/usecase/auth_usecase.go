package usecase

import (
	"context"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type AuthUseCase struct {
	profileRepo repository.ProfileRepository
	auth        AuthProvider
}

func NewAuthUseCase(profileRepo repository.ProfileRepository, auth AuthProvider) *AuthUseCase {
	return &AuthUseCase{
		profileRepo: profileRepo,
		auth:        auth,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type AuthResult struct {
	Token        string
	RefreshToken string
	Profile      *entity.Profile
}

// Register creates the auth user and signs them in immediately; there is no
// confirmation gate before the first session. The profile row is upserted so
// a retried registration cannot fail on a half-created account.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if existing, err := uc.profileRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}

	uid, err := uc.auth.CreateUser(ctx, input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	profile := &entity.Profile{
		ID:       uid,
		Email:    input.Email,
		FullName: input.FullName,
	}
	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, errors.Internal("Failed to create profile record", err)
	}

	token, refreshToken, err := uc.auth.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to start session", err)
	}

	return &AuthResult{
		Token:        token,
		RefreshToken: refreshToken,
		Profile:      profile,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refreshToken, err := uc.auth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, "TOO_MANY_REQUESTS") || errors.Is(err, "INTERNAL_ERROR") {
			return nil, err
		}
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.auth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	profile := uc.profileOrDefault(ctx, uid, email, "")

	return &AuthResult{
		Token:        token,
		RefreshToken: refreshToken,
		Profile:      profile,
	}, nil
}

// LoginWithProvider exchanges an OAuth provider access token for a session.
func (uc *AuthUseCase) LoginWithProvider(ctx context.Context, providerToken string) (*AuthResult, error) {
	result, err := uc.auth.SignInWithIdp(ctx, providerToken)
	if err != nil {
		return nil, errors.Unauthorized("Provider sign-in failed", err)
	}

	profile := uc.profileOrDefault(ctx, result.UID, result.Email, result.DisplayName)

	return &AuthResult{
		Token:        result.IDToken,
		RefreshToken: result.RefreshToken,
		Profile:      profile,
	}, nil
}

func (uc *AuthUseCase) RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error) {
	token, newRefreshToken, err := uc.auth.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	uid, err := uc.auth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid session token", err)
	}

	profile := uc.profileOrDefault(ctx, uid, "", "")

	return &AuthResult{
		Token:        token,
		RefreshToken: newRefreshToken,
		Profile:      profile,
	}, nil
}

// CurrentProfile resolves the signed-in user's profile, lazily creating the
// row on first authenticated use and falling back to the default display
// name when the row is missing or the read fails.
func (uc *AuthUseCase) CurrentProfile(ctx context.Context, uid string) (*entity.Profile, error) {
	return uc.profileOrDefault(ctx, uid, "", ""), nil
}

func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	return uc.auth.SendPasswordResetEmail(ctx, email)
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if err := uc.auth.UpdateUserPassword(ctx, uid, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}
	return nil
}

func (uc *AuthUseCase) ResendConfirmation(ctx context.Context, idToken string) error {
	return uc.auth.SendEmailVerification(ctx, idToken)
}

func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	// Sessions are bearer tokens; dropping the token on the client ends the
	// session. Nothing to revoke server-side.
	return nil
}

func (uc *AuthUseCase) profileOrDefault(ctx context.Context, uid, email, fullName string) *entity.Profile {
	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err == nil && profile != nil {
		return profile
	}

	if fullName == "" {
		fullName = entity.DefaultDisplayName
	}
	profile = &entity.Profile{
		ID:       uid,
		Email:    email,
		FullName: fullName,
	}
	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		logger.Warn("Failed to lazily create profile for %s: %v", uid, err)
	}

	return profile
}
