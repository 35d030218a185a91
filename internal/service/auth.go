package service

import (
	"context"
	"fmt"

	"mailstats/internal/model"
	"mailstats/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthService struct {
	st store.Store
}

func NewAuthService(st store.Store) *AuthService { return &AuthService{st: st} }

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthAccount, error) {
	row, err := s.st.QuerySingle(ctx,
		`SELECT id, email, password_hash, name FROM auth_users WHERE email = ?`, email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(row.Str("password_hash")), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong password")
	}

	acct := &model.AuthAccount{
		ID:    row.Int("id"),
		Email: row.Str("email"),
		Name:  row.Str("name"),
	}
	if acct.Name == "" {
		acct.Name = localPart(acct.Email)
	}
	return acct, nil
}

// CreateAccount inserts a credentialed account, hashing the password with
// bcrypt. Inserting an email that already exists is a no-op, so seeding is
// idempotent.
func (s *AuthService) CreateAccount(ctx context.Context, email, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if name == "" {
		name = localPart(email)
	}
	if _, err := s.st.Exec(ctx, insertAccountSQL(s.st.Backend()), email, string(hash), name); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func insertAccountSQL(backend string) string {
	switch backend {
	case store.BackendPostgres:
		return `INSERT INTO auth_users (email, password_hash, name) VALUES (?, ?, ?) ON CONFLICT (email) DO NOTHING`
	case store.BackendMySQL:
		return `INSERT IGNORE INTO auth_users (email, password_hash, name) VALUES (?, ?, ?)`
	default:
		return `INSERT OR IGNORE INTO auth_users (email, password_hash, name) VALUES (?, ?, ?)`
	}
}
