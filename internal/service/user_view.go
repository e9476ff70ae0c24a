package service

import (
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

// UserDetail 用户详情视图
type UserDetail struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Sex          string `json:"sex"`
	Icon         string `json:"icon"`
	SubscribeNum int64  `json:"subscribe_num"`
	FanNum       int64  `json:"fan_num"`
}

// UserBrief 用户摘要视图
type UserBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// AddressView 地址视图
type AddressView struct {
	ID        uint   `json:"id"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

func buildUserBrief(user *models.User) *UserBrief {
	if user == nil {
		return nil
	}
	return &UserBrief{ID: user.ID, Name: user.Name, Icon: user.Icon}
}

func buildUserBriefs(users []models.User) []UserBrief {
	result := make([]UserBrief, 0, len(users))
	for i := range users {
		result = append(result, *buildUserBrief(&users[i]))
	}
	return result
}

// buildUserDetail 组装用户详情，关注数与粉丝数按关注关系实时统计
func buildUserDetail(user *models.User, fanRepo repository.FanRepository) (*UserDetail, error) {
	ids := []uint{user.ID}
	fans, err := fanRepo.CountFans(ids)
	if err != nil {
		return nil, err
	}
	subscriptions, err := fanRepo.CountSubscriptions(ids)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Sex:          user.Sex,
		Icon:         user.Icon,
		SubscribeNum: subscriptions[user.ID],
		FanNum:       fans[user.ID],
	}, nil
}

func buildAddressView(address *models.Address) *AddressView {
	if address == nil {
		return nil
	}
	return &AddressView{
		ID:        address.ID,
		Address:   address.AddressInfo,
		Phone:     address.Phone,
		IsDefault: address.IsDefault,
	}
}

func buildAddressViews(addresses []models.Address) []AddressView {
	result := make([]AddressView, 0, len(addresses))
	for i := range addresses {
		result = append(result, *buildAddressView(&addresses[i]))
	}
	return result
}

// userBriefLookup 批量加载用户摘要
func userBriefLookup(userRepo repository.UserRepository, ids []uint) (map[uint]*UserBrief, error) {
	result := make(map[uint]*UserBrief, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := userRepo.ListByIDs(uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for i := range users {
		result[users[i].ID] = buildUserBrief(&users[i])
	}
	return result, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
