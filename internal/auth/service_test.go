package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectInsertMember(mock pgxmock.PgxPoolIface, email, username string) {
	mock.ExpectQuery(`INSERT INTO members`).
		WithArgs(pgxmock.AnyArg(), email, username, pgxmock.AnyArg(), pgxmock.AnyArg(), RoleMember).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
}

func expectSaveRefreshToken(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func expectRevokeRefreshToken(mock pgxmock.PgxPoolIface, token string) {
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at`).
		WithArgs(token, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

func TestRegister(t *testing.T) {
	mock := newMock(t)

	expectInsertMember(mock, "jo@example.com", "jo")
	expectSaveRefreshToken(mock)

	var initialized []string
	svc := NewService("secret", mock, func(_ context.Context, memberID string) error {
		initialized = append(initialized, memberID)
		return nil
	})

	member, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "jo@example.com",
		Username: "jo",
		Password: "hunter22",
		FullName: "Jo Smith",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if member.Role != RoleMember {
		t.Fatalf("new members default to MEMBER, got %q", member.Role)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if len(initialized) != 1 || initialized[0] != member.ID {
		t.Fatalf("expected progress init for %s, got %v", member.ID, initialized)
	}

	memberID, role, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if memberID != member.ID || role != RoleMember {
		t.Fatalf("unexpected claims %s/%s", memberID, role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService("secret", nil, nil)
	_, _, err := svc.Register(context.Background(), RegisterRequest{Email: "jo@example.com"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRegisterSurvivesProgressInitFailure(t *testing.T) {
	mock := newMock(t)

	expectInsertMember(mock, "jo@example.com", "jo")
	expectSaveRefreshToken(mock)

	svc := NewService("secret", mock, func(_ context.Context, _ string) error {
		return errors.New("progress store down")
	})

	_, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "jo@example.com",
		Username: "jo",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("registration must not fail on progress init: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatalf("expected tokens")
	}
}

func TestLogin(t *testing.T) {
	mock := newMock(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	mock.ExpectQuery(`SELECT id, email, username, password_hash`).
		WithArgs("jo@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "full_name", "role", "created_at", "updated_at"}).
			AddRow("member-1", "jo@example.com", "jo", string(hash), "Jo Smith", RoleMember, time.Now(), time.Now()))
	expectSaveRefreshToken(mock)

	svc := NewService("secret", mock, nil)
	member, tokens, err := svc.Login(context.Background(), LoginRequest{Email: "jo@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if member.ID != "member-1" || tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected login result")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mock := newMock(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, email, username, password_hash`).
		WithArgs("jo@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "full_name", "role", "created_at", "updated_at"}).
			AddRow("member-1", "jo@example.com", "jo", string(hash), "Jo Smith", RoleMember, time.Now(), time.Now()))

	svc := NewService("secret", mock, nil)
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "jo@example.com", Password: "wrong"})
	if err == nil {
		t.Fatalf("expected invalid credentials")
	}
}

func TestValidateRefreshToken(t *testing.T) {
	mock := newMock(t)

	expectSaveRefreshToken(mock)
	svc := NewService("secret", mock, nil)
	tokens, err := svc.GenerateTokens(context.Background(), "member-1", RoleTrainer)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	mock.ExpectQuery(`SELECT member_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"member_id", "expires_at"}).
			AddRow("member-1", time.Now().Add(time.Hour)))
	expectRevokeRefreshToken(mock, tokens.RefreshToken)

	memberID, role, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if memberID != "member-1" || role != RoleTrainer {
		t.Fatalf("unexpected claims %s/%s", memberID, role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateRefreshTokenSingleUse(t *testing.T) {
	mock := newMock(t)

	expectSaveRefreshToken(mock)
	svc := NewService("secret", mock, nil)
	tokens, err := svc.GenerateTokens(context.Background(), "member-1", RoleMember)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	mock.ExpectQuery(`SELECT member_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"member_id", "expires_at"}).
			AddRow("member-1", time.Now().Add(time.Hour)))
	expectRevokeRefreshToken(mock, tokens.RefreshToken)

	if _, _, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken); err != nil {
		t.Fatalf("first use: %v", err)
	}

	// The revoked row no longer matches the lookup's revoked_at IS NULL
	// filter, so a replay of the same token is rejected.
	mock.ExpectQuery(`SELECT member_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnError(errNoRefreshRow)

	if _, _, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatalf("expected replayed token rejection")
	}
}

var errNoRefreshRow = errors.New("no rows in result set")

func TestValidateRefreshTokenExpiredRow(t *testing.T) {
	mock := newMock(t)

	expectSaveRefreshToken(mock)
	svc := NewService("secret", mock, nil)
	tokens, err := svc.GenerateTokens(context.Background(), "member-1", RoleMember)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	mock.ExpectQuery(`SELECT member_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"member_id", "expires_at"}).
			AddRow("member-1", time.Now().Add(-time.Hour)))

	if _, _, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatalf("expected expired token rejection")
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	mock := newMock(t)

	expectSaveRefreshToken(mock)
	svc := NewService("secret", mock, nil)
	tokens, err := svc.GenerateTokens(context.Background(), "member-1", RoleMember)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	other := NewService("different", nil, nil)
	if _, _, err := other.ValidateAccessToken(tokens.AccessToken); err == nil {
		t.Fatalf("expected signature rejection")
	}
}
