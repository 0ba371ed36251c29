package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawlingo/pawlingo-server/internal/models"
)

// fakeWallet is an injected wallet capability for tests
type fakeWallet struct {
	accounts []string
	err      error
}

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	return w.accounts, w.err
}

func TestTruncateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "standard address",
			address: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
			want:    "0x71C7...976F",
		},
		{
			name:    "short string untouched",
			address: "0x1234",
			want:    "0x1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateAddress(tt.address))
		})
	}
}

func TestGoogleProviderLogin(t *testing.T) {
	provider := &GoogleProvider{}

	user, err := provider.Login(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, user.Provider)
	assert.Equal(t, "Pet Lover", user.Name)
	assert.NotEmpty(t, user.Email)
	assert.Empty(t, user.WalletAddress)
}

func TestEmailProviderLogin(t *testing.T) {
	provider := &EmailProvider{}

	user, err := provider.Login(context.Background(), &models.Credentials{
		Name:     "Jamie",
		Email:    "jamie@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderEmail, user.Provider)
	assert.Equal(t, "Jamie", user.Name)
	assert.Equal(t, "jamie@example.com", user.Email)
	assert.True(t, CheckPasswordHash("password123", user.PasswordHash))
}

func TestEmailProviderLoginMissingCredentials(t *testing.T) {
	provider := &EmailProvider{}

	_, err := provider.Login(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.Login(context.Background(), &models.Credentials{Email: "jamie@example.com"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMetaMaskProviderLogin(t *testing.T) {
	address := "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	provider := &MetaMaskProvider{Wallet: &fakeWallet{accounts: []string{address}}}

	user, err := provider.Login(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderMetaMask, user.Provider)
	assert.Equal(t, address, user.WalletAddress)
	assert.Equal(t, "0x71C7...976F", user.Name)
}

func TestMetaMaskProviderNoWallet(t *testing.T) {
	provider := &MetaMaskProvider{}

	_, err := provider.Login(context.Background(), nil)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestMetaMaskProviderWalletFailures(t *testing.T) {
	tests := []struct {
		name   string
		wallet Wallet
	}{
		{
			name:   "request fails",
			wallet: &fakeWallet{err: errors.New("user rejected")},
		},
		{
			name:   "no accounts",
			wallet: &fakeWallet{},
		},
		{
			name:   "invalid address",
			wallet: &fakeWallet{accounts: []string{"not-an-address"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MetaMaskProvider{Wallet: tt.wallet}
			_, err := provider.Login(context.Background(), nil)
			assert.Error(t, err)
		})
	}
}
