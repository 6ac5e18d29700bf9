package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-ordering/order-svc/internal/domain"
)

type AuthService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

func NewAuthService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetAccountByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.issue(account)
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !s.hasher.Compare(account.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(account)
}

func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*domain.Account, error) {
	return s.accounts.GetAccount(ctx, principal.UserID)
}

func (s *AuthService) issue(account *domain.Account) (*domain.AuthResponse, error) {
	token, err := s.tokens.Generate(account)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: account}, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
