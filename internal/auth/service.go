package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"backend-gymflow/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// ProgressInitializer seeds zero-point progress records for a new member.
type ProgressInitializer func(ctx context.Context, memberID string) error

type Service struct {
	secret       []byte
	db           db.Querier
	initProgress ProgressInitializer
}

type Claims struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewService(secret string, querier db.Querier, initProgress ProgressInitializer) *Service {
	return &Service{
		secret:       []byte(secret),
		db:           querier,
		initProgress: initProgress,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Member, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Member{}, TokenResponse{}, errors.New("email, username, password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Member{}, TokenResponse{}, err
	}

	member := Member{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         RoleMember,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO members (id, email, username, password_hash, full_name, role)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, member.ID, member.Email, member.Username, member.PasswordHash, member.FullName, member.Role)
	if err := row.Scan(&member.CreatedAt, &member.UpdatedAt); err != nil {
		return Member{}, TokenResponse{}, err
	}

	if s.initProgress != nil {
		if err := s.initProgress(ctx, member.ID); err != nil {
			log.Printf("warning: progress init failed for member %s: %v", member.ID, err)
		}
	}

	tokens, err := s.GenerateTokens(ctx, member.ID, member.Role)
	if err != nil {
		return Member{}, TokenResponse{}, err
	}
	return member, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Member, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, full_name, role, created_at, updated_at
		FROM members WHERE email = $1
	`, req.Email)

	var member Member
	if err := row.Scan(&member.ID, &member.Email, &member.Username, &member.PasswordHash, &member.FullName, &member.Role, &member.CreatedAt, &member.UpdatedAt); err != nil {
		return Member{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return Member{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, member.ID, member.Role)
	if err != nil {
		return Member{}, TokenResponse{}, err
	}
	return member, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, memberID, role string) (TokenResponse, error) {
	access, err := s.signToken(memberID, role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(memberID, role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, memberID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", "", err
	}

	memberID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || memberID != claims.MemberID || time.Now().After(expiresAt) {
		return "", "", errors.New("refresh token invalid")
	}

	// Rotation: the presented token is single-use.
	if err := s.revokeRefreshToken(ctx, token); err != nil {
		return "", "", err
	}
	return claims.MemberID, claims.Role, nil
}

func (s *Service) ValidateAccessToken(token string) (string, string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", "", err
	}
	return claims.MemberID, claims.Role, nil
}

func (s *Service) signToken(memberID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, memberID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, member_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), memberID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) revokeRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at=$2
		WHERE token=$1 AND revoked_at IS NULL
	`, token, time.Now())
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT member_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var memberID string
	var expiresAt time.Time
	if err := row.Scan(&memberID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return memberID, expiresAt, nil
}
