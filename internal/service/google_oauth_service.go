package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yourusername/byteask-api/internal/config"
	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
	"github.com/yourusername/byteask-api/pkg/auth"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile contains the verified profile fields we need from Google.
type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleOAuthService handles the redirect/callback Google sign-in flow.
// Provider credentials are injected through the constructor, no package-level
// strategy registration.
type GoogleOAuthService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	oauthConfig *oauth2.Config
	mergePolicy string
	httpClient  *http.Client
}

// NewGoogleOAuthService создает сервис Google OAuth и возвращает ошибку при проблемах
func NewGoogleOAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	cfg config.GoogleConfig,
) (*GoogleOAuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwt service is required")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("google oauth is not configured (client id/secret/callback url)")
	}
	mergePolicy := cfg.MergePolicy
	if mergePolicy == "" {
		mergePolicy = config.MergeLenient
	}
	return &GoogleOAuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		mergePolicy: mergePolicy,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AuthCodeURL returns the provider consent screen URL bound to the given state.
func (s *GoogleOAuthService) AuthCodeURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state)
}

// Authenticate exchanges the authorization code, resolves the profile to a local
// user (creating one for a previously unseen email) and returns an access token.
func (s *GoogleOAuthService) Authenticate(ctx context.Context, code string) (string, error) {
	profile, err := s.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	user, err := s.resolveOrCreate(profile)
	if err != nil {
		return "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token after google auth: %w", err)
	}

	log.Printf("[GoogleOAuth] Пользователь ID=%d (%s) аутентифицирован через Google", user.ID, user.Email)
	return token, nil
}

// exchangeCode trades the authorization code for an access token and fetches
// the userinfo profile.
func (s *GoogleOAuthService) exchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: authorization code is missing", ErrGoogleExchangeFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request failed: %v", ErrGoogleExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: userinfo status=%d body=%s", ErrGoogleExchangeFailed, resp.StatusCode, string(body))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode userinfo response: %v", ErrGoogleExchangeFailed, err)
	}
	if strings.TrimSpace(profile.ID) == "" {
		return nil, fmt.Errorf("%w: userinfo response has no subject id", ErrGoogleExchangeFailed)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return nil, fmt.Errorf("%w: userinfo response has no email", ErrGoogleExchangeFailed)
	}

	return &profile, nil
}

// resolveOrCreate maps the external profile to a local user by google id first,
// then by email according to the configured merge policy, creating the user for
// a previously unseen email.
func (s *GoogleOAuthService) resolveOrCreate(profile *GoogleProfile) (*entity.User, error) {
	user, err := s.userRepo.GetByGoogleID(profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(profile.Email)
	if err == nil {
		return s.mergeExisting(existing, profile)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	googleID := profile.ID
	user = &entity.User{
		Name:     profile.Name,
		Email:    profile.Email,
		GoogleID: &googleID,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Concurrent local registration for the same email: resolve against
			// the record that won the race.
			winner, getErr := s.userRepo.GetByEmail(profile.Email)
			if getErr != nil {
				return nil, fmt.Errorf("failed to resolve user after create conflict: %w", getErr)
			}
			return s.mergeExisting(winner, profile)
		}
		return nil, fmt.Errorf("failed to create user from google auth: %w", err)
	}
	return user, nil
}

// mergeExisting applies the merge policy for an email that already has a local
// account. Lenient keeps the source behavior (sign in as that account) but
// records the linkage by backfilling GoogleID; strict refuses any account whose
// linkage was not recorded earlier.
func (s *GoogleOAuthService) mergeExisting(user *entity.User, profile *GoogleProfile) (*entity.User, error) {
	if user.GoogleID != nil {
		if *user.GoogleID == profile.ID {
			return user, nil
		}
		return nil, fmt.Errorf("%w: email belongs to an account linked to another google identity", apperrors.ErrConflict)
	}

	if s.mergePolicy == config.MergeStrict {
		return nil, fmt.Errorf("%w: account %s has no recorded google linkage", ErrGoogleLinkRequired, user.Email)
	}

	if err := s.userRepo.SetGoogleID(user.ID, profile.ID); err != nil {
		return nil, fmt.Errorf("failed to backfill google id for user ID=%d: %w", user.ID, err)
	}
	googleID := profile.ID
	user.GoogleID = &googleID
	log.Printf("[GoogleOAuth] Google id привязан к существующему пользователю ID=%d", user.ID)
	return user, nil
}
