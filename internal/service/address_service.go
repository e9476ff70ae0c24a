package service

import (
	"strings"
	"time"

	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"

	"gorm.io/gorm"
)

const addressMaxLength = 50

// AddressService 收货地址服务
type AddressService struct {
	repo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// AddressInput 创建/更新地址输入
type AddressInput struct {
	Address   string
	Phone     string
	IsDefault bool
}

// List 获取用户地址列表，默认地址在前
func (s *AddressService) List(userID uint) ([]AddressView, error) {
	addresses, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildAddressViews(addresses), nil
}

// GetDefault 获取默认地址
func (s *AddressService) GetDefault(userID uint) (*AddressView, error) {
	address, err := s.repo.GetDefault(userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrNotFound
	}
	return buildAddressView(address), nil
}

// Create 新增地址，设为默认时清除其余默认标记
func (s *AddressService) Create(userID uint, input AddressInput) (*AddressView, error) {
	if err := validateAddressInput(&input); err != nil {
		return nil, err
	}
	address := &models.Address{
		UserID:      userID,
		AddressInfo: input.Address,
		Phone:       input.Phone,
		IsDefault:   input.IsDefault,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.ClearDefault(userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildAddressView(address), nil
}

// Update 更新本人地址
func (s *AddressService) Update(userID, addressID uint, input AddressInput) (*AddressView, error) {
	if err := validateAddressInput(&input); err != nil {
		return nil, err
	}
	var updated *models.Address
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		address, err := repo.GetByIDAndUser(addressID, userID)
		if err != nil {
			return err
		}
		if address == nil {
			return ErrNotFound
		}
		address.AddressInfo = input.Address
		address.Phone = input.Phone
		address.IsDefault = input.IsDefault
		address.UpdatedAt = time.Now()
		if err := repo.Update(address); err != nil {
			return err
		}
		if address.IsDefault {
			if err := repo.ClearDefault(userID, address.ID); err != nil {
				return err
			}
		}
		updated = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildAddressView(updated), nil
}

// Delete 删除本人地址，被订单引用时拒绝
func (s *AddressService) Delete(userID, addressID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		address, err := repo.GetByIDForUpdate(addressID)
		if err != nil {
			return err
		}
		if address == nil || address.UserID != userID {
			return ErrNotFound
		}
		count, err := repo.CountOrders(address.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAddressInUse
		}
		return repo.Delete(address.ID)
	})
}

func validateAddressInput(input *AddressInput) error {
	input.Address = strings.TrimSpace(input.Address)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Address == "" {
		return newValidationError("address", "required")
	}
	if len([]rune(input.Address)) > addressMaxLength {
		return newValidationError("address", "max")
	}
	return nil
}
