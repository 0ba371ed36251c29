package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/pawlingo/pawlingo-server/internal/models"
)

var (
	// ErrProviderUnavailable means the identity mechanism is not present
	// in this environment (e.g. no wallet capability was injected).
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	// ErrInvalidCredentials covers malformed or missing login input
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Provider is one identity mechanism (oauth, password or wallet). All
// variants satisfy the same login contract so a real integration can be
// substituted without touching the auth service control flow.
type Provider interface {
	Name() models.AuthProvider
	Login(ctx context.Context, creds *models.Credentials) (*models.User, error)
}

// Wallet is the injected wallet capability used by the metamask
// provider. Its absence is a handled condition, not a crash.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]string, error)
}

// delay simulates network latency for the stand-in providers.
// Honors context cancellation.
func delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GoogleProvider is an OAuth stand-in that fabricates a user record
type GoogleProvider struct {
	Delay time.Duration
}

func (p *GoogleProvider) Name() models.AuthProvider { return models.ProviderGoogle }

func (p *GoogleProvider) Login(ctx context.Context, creds *models.Credentials) (*models.User, error) {
	if err := delay(ctx, p.Delay); err != nil {
		return nil, err
	}

	email := "pet.lover@example.com"
	if creds != nil && creds.Email != "" {
		email = creds.Email
	}

	now := time.Now()
	return &models.User{
		ID:        uuid.New(),
		Name:      "Pet Lover",
		Email:     email,
		AvatarURL: "https://ui-avatars.com/api/?name=Pet+Lover&background=6366f1&color=fff",
		Provider:  models.ProviderGoogle,
		CreatedAt: now,
		LastSeen:  now,
	}, nil
}

// EmailProvider is a password stand-in. The supplied password is bcrypt
// hashed onto the fabricated record; there is no server-side account to
// verify it against.
type EmailProvider struct {
	Delay time.Duration
}

func (p *EmailProvider) Name() models.AuthProvider { return models.ProviderEmail }

func (p *EmailProvider) Login(ctx context.Context, creds *models.Credentials) (*models.User, error) {
	if creds == nil || creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := delay(ctx, p.Delay); err != nil {
		return nil, err
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return nil, err
	}

	name := creds.Name
	if name == "" {
		name = "PawLingo User"
	}

	now := time.Now()
	return &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        creds.Email,
		AvatarURL:    "https://ui-avatars.com/api/?name=PawLingo+User&background=22c55e&color=fff",
		Provider:     models.ProviderEmail,
		PasswordHash: hash,
		CreatedAt:    now,
		LastSeen:     now,
	}, nil
}

// MetaMaskProvider logs a user in through an injected wallet capability
type MetaMaskProvider struct {
	Wallet Wallet
	Delay  time.Duration
}

func (p *MetaMaskProvider) Name() models.AuthProvider { return models.ProviderMetaMask }

func (p *MetaMaskProvider) Login(ctx context.Context, creds *models.Credentials) (*models.User, error) {
	if p.Wallet == nil {
		return nil, ErrProviderUnavailable
	}

	if err := delay(ctx, p.Delay); err != nil {
		return nil, err
	}

	accounts, err := p.Wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet account request failed: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("wallet returned no accounts")
	}

	address := accounts[0]
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("wallet returned an invalid address: %s", address)
	}
	address = common.HexToAddress(address).Hex()

	now := time.Now()
	return &models.User{
		ID:            uuid.New(),
		Name:          TruncateAddress(address),
		WalletAddress: address,
		AvatarURL:     "https://ui-avatars.com/api/?name=Crypto+User&background=f59e0b&color=fff",
		Provider:      models.ProviderMetaMask,
		CreatedAt:     now,
		LastSeen:      now,
	}, nil
}

// TruncateAddress renders a wallet address as its first 6 and last 4
// characters, e.g. "0x1234...abcd".
func TruncateAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
