package services

import (
	"context"
	"errors"
	"testing"

	"github.com/deepshare-project/backend/internal/models"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

type fakeDeviceStore struct {
	existing  *models.Device
	findErr   error
	insertErr error

	lastLookup string
	inserted   []models.Device
}

func (f *fakeDeviceStore) FindByWallet(ctx context.Context, walletAddress string) (*models.Device, error) {
	f.lastLookup = walletAddress
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.existing != nil {
		return f.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeviceStore) Insert(ctx context.Context, device *models.Device) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	device.ID = int64(len(f.inserted)) + 1
	f.inserted = append(f.inserted, *device)
	return nil
}

func TestRegister_NormalizesAddresses(t *testing.T) {
	store := &fakeDeviceStore{}
	service := &DeviceService{Store: store}

	device, err := service.Register(context.Background(),
		"0xDEF0000000000000000000000000000000000001",
		"hostname: cam1",
		"0xABC0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if device.WalletAddress != "0xdef0000000000000000000000000000000000001" {
		t.Errorf("device address not normalized: %q", device.WalletAddress)
	}
	if device.OwnerAddress != "0xabc0000000000000000000000000000000000001" {
		t.Errorf("owner address not normalized: %q", device.OwnerAddress)
	}
	if store.lastLookup != "0xdef0000000000000000000000000000000000001" {
		t.Errorf("duplicate check used unnormalized address: %q", store.lastLookup)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one inserted row, got %d", len(store.inserted))
	}
}

func TestRegister_DuplicateRejected(t *testing.T) {
	store := &fakeDeviceStore{
		existing: &models.Device{ID: 1, WalletAddress: "0xdef0000000000000000000000000000000000001"},
	}
	service := &DeviceService{Store: store}

	_, err := service.Register(context.Background(),
		"0xDEF0000000000000000000000000000000000001", "hostname: cam1", "0xabc")
	if !errors.Is(err, ErrDeviceExists) {
		t.Fatalf("expected ErrDeviceExists, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("expected no insert after duplicate check, got %d rows", len(store.inserted))
	}
}

func TestRegister_LateRaceMapsToConflict(t *testing.T) {
	// The pre-check misses, but a concurrent registration wins the insert:
	// the unique-index violation must surface as the same conflict as the
	// pre-check, not as a generic store error.
	store := &fakeDeviceStore{
		insertErr: &pgconn.PgError{Code: "23505", ConstraintName: "Devices_wallet_address_key"},
	}
	service := &DeviceService{Store: store}

	_, err := service.Register(context.Background(),
		"0xdef0000000000000000000000000000000000001", "hostname: cam1", "0xabc")
	if !errors.Is(err, ErrDeviceExists) {
		t.Fatalf("expected ErrDeviceExists on insert race, got %v", err)
	}
}

func TestRegister_StoreErrorPropagates(t *testing.T) {
	store := &fakeDeviceStore{findErr: errors.New("connection reset")}
	service := &DeviceService{Store: store}

	_, err := service.Register(context.Background(),
		"0xdef0000000000000000000000000000000000001", "hostname: cam1", "0xabc")
	if err == nil {
		t.Fatal("expected error when the duplicate check fails")
	}
	if errors.Is(err, ErrDeviceExists) {
		t.Fatalf("store failure misclassified as conflict: %v", err)
	}
}
