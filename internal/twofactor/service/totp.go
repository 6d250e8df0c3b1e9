package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net/http"

	twofactorerrors "calnotify/internal/twofactor/errors"
	"calnotify/internal/twofactor/repository"
	apperrors "calnotify/pkg/errors"
	"calnotify/pkg/logger"
	"calnotify/pkg/model"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const qrCodeSize = 256

type SetupResult struct {
	Secret  string `json:"secret"`
	KeyURI  string `json:"keyUri"`
	DataURI string `json:"dataUri"`
}

// Sealer encrypts the TOTP secret before it is stored.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

type TwoFactorService interface {
	SetupTOTP(ctx context.Context, userID string, password string) (*SetupResult, error)
}

type twoFactorService struct {
	repo     repository.UserRepository
	sealer   Sealer
	issuer   string
	log      *logger.Logger
	generate func(opts totp.GenerateOpts) (*otp.Key, error)
}

// NewTwoFactorService builds the setup flow. repo and sealer may be nil when
// the database or the encryption key is not configured; setup then fails
// with a 500.
func NewTwoFactorService(repo repository.UserRepository, sealer Sealer, issuer string, log *logger.Logger) TwoFactorService {
	return &twoFactorService{
		repo:     repo,
		sealer:   sealer,
		issuer:   issuer,
		log:      log,
		generate: totp.Generate,
	}
}

func (s *twoFactorService) SetupTOTP(ctx context.Context, userID string, password string) (*SetupResult, error) {
	if s.repo == nil {
		s.log.Error("Two-factor setup unavailable", "user_id", userID, "error", "database is not configured")
		return nil, apperrors.Misconfigured("database")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, twofactorerrors.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("User not found")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	if err := s.checkEligible(user); err != nil {
		return nil, err
	}

	if s.sealer == nil {
		s.log.Error("Two-factor setup unavailable", "user_id", userID, "error", twofactorerrors.ErrEncryptionKeyMissing)
		return nil, apperrors.Misconfigured("encryption key")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Warn("Stored password hash could not be compared", "user_id", userID, "error", err)
		}
		return nil, apperrors.Wrap(twofactorerrors.ErrIncorrectPassword,
			apperrors.CodeInvalidInput, twofactorerrors.CodeIncorrectPassword, http.StatusBadRequest)
	}

	key, err := s.generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to generate two-factor secret", err)
	}

	sealed, err := s.sealer.Seal(key.Secret())
	if err != nil {
		return nil, apperrors.Internal("Failed to encrypt two-factor secret", err)
	}

	if err := s.repo.SetTwoFactorSecret(ctx, user.ID, sealed); err != nil {
		if errors.Is(err, twofactorerrors.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("User not found")
		}
		return nil, apperrors.Internal("Failed to store two-factor secret", err)
	}

	dataURI, err := qrDataURI(key)
	if err != nil {
		return nil, apperrors.Internal("Failed to render QR code", err)
	}

	s.log.Info("Two-factor secret issued", "user_id", user.ID)

	return &SetupResult{
		Secret:  key.Secret(),
		KeyURI:  key.URL(),
		DataURI: dataURI,
	}, nil
}

func (s *twoFactorService) checkEligible(user *model.User) error {
	if !user.UsesLocalCredentials() {
		return apperrors.Wrap(twofactorerrors.ErrThirdPartyIdentityProvider,
			apperrors.CodeInvalidInput, twofactorerrors.CodeThirdPartyIdentityProvider, http.StatusBadRequest)
	}
	if user.Password == "" {
		return apperrors.Wrap(twofactorerrors.ErrMissingPassword,
			apperrors.CodeInvalidInput, twofactorerrors.CodeMissingPassword, http.StatusBadRequest)
	}
	if user.TwoFactorEnabled {
		return apperrors.Wrap(twofactorerrors.ErrAlreadyEnabled,
			apperrors.CodeInvalidInput, twofactorerrors.CodeAlreadyEnabled, http.StatusBadRequest)
	}
	return nil
}

func qrDataURI(key *otp.Key) (string, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("render qr image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
