package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/nxthub/influencer-ops/internal"
)

type Repository interface {
	GetCredentials(email string) (passwordHash string, userID string, err error)
	GetActorByID(userID string) (*Actor, error)
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens plus the actor
// record. A manager with no assigned department is a configuration error
// surfaced here, at login, so nothing downstream has to handle it.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	storedHash, userID, err := s.repo.GetCredentials(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: unknown email", "email", dto.Email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	actor, err := s.repo.GetActorByID(userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if actor.Role == RoleManager && actor.Department == "" {
		s.logger.Error("login blocked: manager without department", "user_id", actor.ID, "email", actor.Email)
		return nil, internal.ErrManagerNeedsDepartment
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(actor.ID, actor.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(actor.ID, actor.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "user_id", actor.ID, "role", actor.Role)

	return &LoginResult{
		Tokens: AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken},
		Actor:  *actor,
	}, nil
}

// RefreshTokens validates a refresh token and issues a new token pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) GetActor(userID string) (*Actor, error) {
	return s.repo.GetActorByID(userID)
}
