package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

func TestAddressSingleDefault(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	user := createTestUser(t, db, "alice")

	first, err := svc.Create(user.ID, AddressInput{Address: "北京市朝阳区", Phone: "13800000000", IsDefault: true})
	if err != nil {
		t.Fatalf("create first address failed: %v", err)
	}
	second, err := svc.Create(user.ID, AddressInput{Address: "上海市徐汇区", Phone: "13800000001", IsDefault: true})
	if err != nil {
		t.Fatalf("create second address failed: %v", err)
	}

	var defaults int64
	if err := db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults).Error; err != nil {
		t.Fatalf("count defaults failed: %v", err)
	}
	if defaults != 1 {
		t.Fatalf("default address count want 1 got %d", defaults)
	}
	current, err := svc.GetDefault(user.ID)
	if err != nil {
		t.Fatalf("get default failed: %v", err)
	}
	if current.ID != second.ID {
		t.Fatalf("default address want %d got %d", second.ID, current.ID)
	}

	if _, err := svc.Update(user.ID, first.ID, AddressInput{Address: "北京市海淀区", IsDefault: true}); err != nil {
		t.Fatalf("update address failed: %v", err)
	}
	list, err := svc.List(user.ID)
	if err != nil {
		t.Fatalf("list addresses failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || !list[0].IsDefault || list[1].IsDefault {
		t.Fatalf("default address should be listed first, got %+v", list)
	}
}

func TestAddressValidationAndOwnership(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")

	if _, err := svc.Create(owner.ID, AddressInput{Address: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank address want ErrValidation got %v", err)
	}
	if _, err := svc.Create(owner.ID, AddressInput{Address: strings.Repeat("路", 51)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("long address want ErrValidation got %v", err)
	}
	if _, err := svc.GetDefault(owner.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing default want ErrNotFound got %v", err)
	}

	address, err := svc.Create(owner.ID, AddressInput{Address: "杭州市西湖区"})
	if err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	if _, err := svc.Update(stranger.ID, address.ID, AddressInput{Address: "篡改"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update want ErrNotFound got %v", err)
	}
	if err := svc.Delete(stranger.ID, address.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete want ErrNotFound got %v", err)
	}
}

func TestAddressDeleteInUse(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAddressService(repository.NewAddressRepository(db))
	user := createTestUser(t, db, "buyer")
	_, variants := createTestProduct(t, db, "耳机", true, true, 199)

	used := createTestAddress(t, db, user.ID)
	createTestOrder(t, db, user.ID, used.ID, variants[0].ID, constants.OrderStatusAwaitingShipment)
	if err := svc.Delete(user.ID, used.ID); !errors.Is(err, ErrAddressInUse) {
		t.Fatalf("address in use want ErrAddressInUse got %v", err)
	}

	spare := createTestAddress(t, db, user.ID)
	other := createTestUser(t, db, "stranger")
	if err := svc.Delete(other.ID, spare.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign address want ErrNotFound got %v", err)
	}
	if err := svc.Delete(user.ID, spare.ID); err != nil {
		t.Fatalf("delete spare address failed: %v", err)
	}
	var remaining int64
	if err := db.Model(&models.Address{}).Where("id = ?", spare.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count addresses failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("spare address should be deleted, remaining=%d", remaining)
	}
	if err := svc.Delete(user.ID, spare.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete want ErrNotFound got %v", err)
	}
}
