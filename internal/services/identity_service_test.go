package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/deepshare-project/backend/internal/models"
	"github.com/jackc/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	existing  *models.User // returned by every lookup when set
	raceUser  *models.User // appears only after an insert was attempted
	insertErr error

	finds      int
	inserts    int
	lastLookup string
}

func (f *fakeUserStore) FindByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	f.finds++
	f.lastLookup = walletAddress
	if f.existing != nil {
		return f.existing, nil
	}
	if f.raceUser != nil && f.inserts > 0 {
		return f.raceUser, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	user.ID = 1
	f.existing = user
	return nil
}

func TestEnsureUser_SessionCacheSkipsStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	cached := models.User{ID: 42, WalletAddress: "0xabc0000000000000000000000000000000000001"}
	data, _ := json.Marshal(cached)
	if err := mr.Set(EnsuredUserKeyPrefix+cached.WalletAddress, string(data)); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	// No DB wired: a session-cache hit must resolve without any store access.
	// The mixed-case input exercises address normalization on the cache key.
	service := NewIdentityService(nil, redisClient)
	user, err := service.EnsureUser(context.Background(), "0xABC0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 42 {
		t.Fatalf("expected cached user 42, got %+v", user)
	}
}

func TestEnsureUser_RejectsEmptyAddress(t *testing.T) {
	service := NewIdentityService(nil, nil)
	if _, err := service.EnsureUser(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty wallet address")
	}
}

func TestEnsureUser_CreatesOncePerAddress(t *testing.T) {
	store := &fakeUserStore{}
	service := &IdentityService{Store: store}

	first, err := service.EnsureUser(context.Background(), "0xABC0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	if first.WalletAddress != "0xabc0000000000000000000000000000000000001" {
		t.Errorf("address not normalized on insert: %q", first.WalletAddress)
	}
	if store.lastLookup != "0xabc0000000000000000000000000000000000001" {
		t.Errorf("lookup used unnormalized address: %q", store.lastLookup)
	}

	// A second call with different letter case resolves to the same row
	// without another insert.
	second, err := service.EnsureUser(context.Background(), "0xAbC0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if second.ID != first.ID || second.WalletAddress != first.WalletAddress {
		t.Errorf("expected equivalent rows, got %+v and %+v", first, second)
	}
	if store.inserts != 1 {
		t.Fatalf("expected exactly one insert, got %d", store.inserts)
	}
}

func TestEnsureUser_InsertRaceRefetches(t *testing.T) {
	// The lookup misses, the insert loses to a concurrent request's row:
	// the resolver must return that row instead of failing.
	winner := &models.User{ID: 7, WalletAddress: "0xabc0000000000000000000000000000000000001"}
	store := &fakeUserStore{
		raceUser:  winner,
		insertErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_wallet_address_key"},
	}
	service := &IdentityService{Store: store}

	user, err := service.EnsureUser(context.Background(), "0xabc0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected the concurrent winner's row, got %+v", user)
	}
	if store.inserts != 1 {
		t.Errorf("expected one insert attempt, got %d", store.inserts)
	}
	if store.finds != 2 {
		t.Errorf("expected lookup then re-fetch, got %d finds", store.finds)
	}
}

func TestEnsureUser_OtherInsertErrorPropagates(t *testing.T) {
	store := &fakeUserStore{insertErr: errors.New("connection reset")}
	service := &IdentityService{Store: store}

	_, err := service.EnsureUser(context.Background(), "0xabc0000000000000000000000000000000000001")
	if err == nil {
		t.Fatal("expected error when the insert fails outright")
	}
	if store.finds != 1 {
		t.Errorf("expected no re-fetch for a non-conflict failure, got %d finds", store.finds)
	}
}
