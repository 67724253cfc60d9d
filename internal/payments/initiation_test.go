package payments

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
)

var referencePattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestNewInitiationServiceRequiresStore(t *testing.T) {
	if _, err := NewInitiationService(nil, nil, nil); err == nil {
		t.Fatal("expected error creating service without store")
	}
}

func TestInitiateCreatesPendingRecord(t *testing.T) {
	store := NewMemoryStore()
	svc, err := NewInitiationService(store, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	details := InitiationDetails{
		CampaignID:    7,
		DisasterID:    "dst-3",
		WalletAddress: "abc123",
		Amount:        decimal.RequireFromString("10.00"),
		Token:         enums.TokenRLF,
	}
	reference, err := svc.Initiate(context.Background(), details)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if !referencePattern.MatchString(reference) {
		t.Fatalf("reference %q is not 32 lowercase hex chars", reference)
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one record got %d", store.Len())
	}

	record, err := store.Get(context.Background(), reference)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending status got %s", record.Status)
	}
	if record.Token != enums.TokenRLF {
		t.Fatalf("expected token %s got %s", enums.TokenRLF, record.Token)
	}
	if record.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp")
	}
}

func TestInitiateDefaultsToken(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := NewInitiationService(store, nil, nil)

	reference, err := svc.Initiate(context.Background(), InitiationDetails{})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	record, err := store.Get(context.Background(), reference)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Token != enums.DefaultTokenSymbol {
		t.Fatalf("expected default token got %s", record.Token)
	}
}

func TestInitiateRejectsInvalidToken(t *testing.T) {
	svc, _ := NewInitiationService(NewMemoryStore(), nil, nil)
	_, err := svc.Initiate(context.Background(), InitiationDetails{Token: enums.TokenSymbol("DOGE")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestInitiateRejectsNegativeAmount(t *testing.T) {
	svc, _ := NewInitiationService(NewMemoryStore(), nil, nil)
	_, err := svc.Initiate(context.Background(), InitiationDetails{
		Amount: decimal.RequireFromString("-1"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

type failingStore struct {
	Store
}

func (failingStore) Put(context.Context, PendingPayment) error {
	return errors.New("redis down")
}

func TestInitiateSurfacesStoreFailure(t *testing.T) {
	svc, _ := NewInitiationService(failingStore{}, nil, nil)
	_, err := svc.Initiate(context.Background(), InitiationDetails{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestInitiateReferencesAreUnique(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := NewInitiationService(store, nil, nil)

	const rounds = 10000
	seen := make(map[string]struct{}, rounds)
	for i := 0; i < rounds; i++ {
		reference, err := svc.Initiate(context.Background(), InitiationDetails{})
		if err != nil {
			t.Fatalf("initiate %d: %v", i, err)
		}
		if _, dup := seen[reference]; dup {
			t.Fatalf("duplicate reference after %d rounds: %s", i, reference)
		}
		seen[reference] = struct{}{}
	}
	if store.Len() != rounds {
		t.Fatalf("expected %d records got %d", rounds, store.Len())
	}
}
