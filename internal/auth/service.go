package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	pkgauth "github.com/relieffund/relieffund-backend/pkg/auth"
	"github.com/relieffund/relieffund-backend/pkg/config"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

const nonceBytes = 32

type nonceStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	NonceKey(walletAddress string) string
}

// Service implements the wallet sign-in flow: a single-use nonce challenge
// followed by an ed25519 signature check. The wallet address is the hex
// encoding of the signing public key.
type Service struct {
	store nonceStore
	jwt   config.JWTConfig
	logg  *logger.Logger
}

// NewService wires the nonce store and JWT settings into the auth service.
func NewService(store nonceStore, jwtCfg config.JWTConfig, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("nonce store is required")
	}
	return &Service{store: store, jwt: jwtCfg, logg: logg}, nil
}

// NonceDTO is the sign-in challenge handed to the wallet.
type NonceDTO struct {
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenDTO is the session token minted after a successful login.
type TokenDTO struct {
	AccessToken   string `json:"accessToken"`
	WalletAddress string `json:"walletAddress"`
}

// IssueNonce stores a fresh single-use nonce for the wallet and returns it.
// Issuing again before login overwrites the previous challenge.
func (s *Service) IssueNonce(ctx context.Context, walletAddress string) (*NonceDTO, error) {
	if _, err := publicKeyFromAddress(walletAddress); err != nil {
		return nil, err
	}

	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate login nonce")
	}
	nonce := hex.EncodeToString(buf)

	ttl := s.jwt.NonceTTL()
	if err := s.store.Set(ctx, s.store.NonceKey(walletAddress), nonce, ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store login nonce")
	}

	return &NonceDTO{
		Nonce:     nonce,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// Login verifies the wallet's signature over its issued nonce and mints a
// session token. The nonce is consumed on read, so a second attempt with the
// same challenge fails regardless of the signature.
func (s *Service) Login(ctx context.Context, walletAddress, signatureHex string) (*TokenDTO, error) {
	publicKey, err := publicKeyFromAddress(walletAddress)
	if err != nil {
		return nil, err
	}

	signature, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil || len(signature) != ed25519.SignatureSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signature must be 64 hex-encoded bytes")
	}

	nonce, err := s.store.GetDel(ctx, s.store.NonceKey(walletAddress))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "nonce expired or never issued")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load login nonce")
	}

	if !ed25519.Verify(publicKey, []byte(nonce), signature) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithWallet(ctx, walletAddress), "wallet login signature rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "signature verification failed")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, time.Now().UTC(), pkgauth.AccessTokenPayload{
		WalletAddress: walletAddress,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithWallet(ctx, walletAddress), "wallet login succeeded")
	}
	return &TokenDTO{AccessToken: token, WalletAddress: walletAddress}, nil
}

func publicKeyFromAddress(walletAddress string) (ed25519.PublicKey, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(walletAddress))
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet address must be a 32-byte hex public key")
	}
	return ed25519.PublicKey(decoded), nil
}
