package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"firebase.google.com/go/v4/auth"

	"roomlink/pkg/errors"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:%s?key=%s"
const secureTokenURL = "https://securetoken.googleapis.com/v1/token?key=%s"

type AuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
}

func NewAuthClient(client *auth.Client, apiKey string) *AuthClient {
	return &AuthClient{
		client: client,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (f *AuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

func (f *AuthClient) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	params := (&auth.UserToUpdate{}).
		Password(newPassword)

	_, err := f.client.UpdateUser(ctx, uid, params)
	if err != nil {
		return err
	}

	return nil
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

// SignInWithEmailPassword exchanges credentials for an ID token and refresh
// token through the Identity Toolkit REST API; the Admin SDK cannot mint ID
// tokens from a password.
func (f *AuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var result signInResponse
	if err := f.postIdentityToolkit(ctx, "signInWithPassword", payload, &result); err != nil {
		return "", "", err
	}

	return result.IDToken, result.RefreshToken, nil
}

// SignInWithIdp signs in with an OAuth provider access token (single
// provider: Google). Returns id token, refresh token, uid, email and the
// provider-reported display name.
func (f *AuthClient) SignInWithIdp(ctx context.Context, providerToken string) (*OAuthResult, error) {
	postBody := url.Values{}
	postBody.Set("access_token", providerToken)
	postBody.Set("providerId", "google.com")

	payload := map[string]interface{}{
		"postBody":          postBody.Encode(),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	}

	var result struct {
		signInResponse
		FullName string `json:"fullName"`
	}
	if err := f.postIdentityToolkit(ctx, "signInWithIdp", payload, &result); err != nil {
		return nil, err
	}

	name := result.FullName
	if name == "" {
		name = result.DisplayName
	}

	return &OAuthResult{
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		UID:          result.LocalID,
		Email:        result.Email,
		DisplayName:  name,
	}, nil
}

type OAuthResult struct {
	IDToken      string
	RefreshToken string
	UID          string
	Email        string
	DisplayName  string
}

// RefreshIDToken exchanges a refresh token for a fresh ID token.
func (f *AuthClient) RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := fmt.Sprintf(secureTokenURL, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", errors.Internal("Authentication service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", errors.Unauthorized("Invalid refresh token", readRestError(resp.Body))
	}

	var result struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", errors.Internal("Failed to parse token response", err)
	}

	return result.IDToken, result.RefreshToken, nil
}

// SendPasswordResetEmail asks the auth provider to mail a recovery link.
func (f *AuthClient) SendPasswordResetEmail(ctx context.Context, email string) error {
	payload := map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}
	return f.postIdentityToolkit(ctx, "sendOobCode", payload, &struct{}{})
}

// SendEmailVerification re-sends the confirmation email for the session's
// user.
func (f *AuthClient) SendEmailVerification(ctx context.Context, idToken string) error {
	payload := map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}
	return f.postIdentityToolkit(ctx, "sendOobCode", payload, &struct{}{})
}

func (f *AuthClient) postIdentityToolkit(ctx context.Context, action string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(identityToolkitURL, action, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Internal("Authentication service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return restErrorToAppError(readRestError(resp.Body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type restError struct {
	Message string
}

func (e *restError) Error() string {
	return e.Message
}

func readRestError(body io.Reader) error {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil || parsed.Error.Message == "" {
		return &restError{Message: "UNKNOWN"}
	}
	return &restError{Message: parsed.Error.Message}
}

func restErrorToAppError(err error) error {
	restErr, ok := err.(*restError)
	if !ok {
		return errors.Internal("Authentication request failed", err)
	}

	switch restErr.Message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return errors.Unauthorized("Invalid credentials", err)
	case "EMAIL_EXISTS":
		return errors.Conflict("Email already in use")
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errors.TooManyRequests("Too many attempts, try again later")
	default:
		return errors.Internal("Authentication request failed", err)
	}
}
