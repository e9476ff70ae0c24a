package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/cache"
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"

	"gorm.io/gorm"
)

// UserService 用户资料与关注关系服务
type UserService struct {
	userRepo    repository.UserRepository
	fanRepo     repository.FanRepository
	cascadeRepo repository.CascadeRepository
	uploads     *UploadService
	cleaner     *FileCleaner
	authz       *authz.Service
}

// NewUserService 创建用户服务
func NewUserService(
	userRepo repository.UserRepository,
	fanRepo repository.FanRepository,
	cascadeRepo repository.CascadeRepository,
	uploads *UploadService,
	cleaner *FileCleaner,
	authzService *authz.Service,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		fanRepo:     fanRepo,
		cascadeRepo: cascadeRepo,
		uploads:     uploads,
		cleaner:     cleaner,
		authz:       authzService,
	}
}

// UpdateProfileInput 资料更新输入，nil 字段保持不变
type UpdateProfileInput struct {
	Email *string
	Phone *string
	Sex   *string
}

// GetDetail 获取用户详情
func (s *UserService) GetDetail(userID uint) (*UserDetail, error) {
	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}
	return buildUserDetail(user, s.fanRepo)
}

// UpdateProfile 更新用户资料
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*UserDetail, error) {
	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Sex != nil {
		sex := strings.TrimSpace(*input.Sex)
		if sex != constants.UserSexMale && sex != constants.UserSexFemale {
			return nil, newValidationError("sex", "oneof")
		}
		updates["sex"] = sex
	}
	if len(updates) == 0 {
		return nil, ErrProfileEmpty
	}
	if err := s.userRepo.UpdateFields(user.ID, updates); err != nil {
		return nil, err
	}
	invalidateFeedCache(ctx)
	return s.GetDetail(user.ID)
}

// UploadIcon 上传头像并替换旧头像
func (s *UserService) UploadIcon(ctx context.Context, userID uint, file *multipart.FileHeader) (*UserDetail, error) {
	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}
	url, err := s.uploads.SaveImage(ctx, file, constants.UploadSceneIcon)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"icon": url}); err != nil {
		s.uploads.Discard(ctx, []string{url})
		return nil, err
	}
	invalidateFeedCache(ctx)
	if old := strings.TrimSpace(user.Icon); old != "" && old != url {
		s.cleaner.Cleanup(ctx, []string{old}, "user_icon_replaced")
	}
	return s.GetDetail(user.ID)
}

// DeleteAccount 注销账号并级联删除其全部数据
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	var files []string
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.cascadeRepo.WithTx(tx).DeleteUser(user.ID)
		if err != nil {
			return err
		}
		files = deleted
		return nil
	})
	if err != nil {
		return err
	}

	if err := cache.DelUserAuthState(ctx, user.ID); err != nil {
		logger.Warnw("user_auth_state_cache_delete_failed", "user_id", user.ID, "error", err)
	}
	if s.authz != nil {
		if err := s.authz.RemoveUser(user.ID); err != nil {
			logger.Warnw("user_authz_cleanup_failed", "user_id", user.ID, "error", err)
		}
	}
	invalidateFeedCache(ctx)
	s.cleaner.Cleanup(ctx, files, "user_deleted")
	logger.Infow("user_account_deleted", "user_id", user.ID, "files", len(files))
	return nil
}

// Follow 关注用户
func (s *UserService) Follow(fanID, userID uint) error {
	if fanID == userID {
		return ErrSelfFollow
	}
	if _, err := s.getUser(userID); err != nil {
		return err
	}
	exists, err := s.fanRepo.Exists(userID, fanID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}
	err = s.fanRepo.Create(&models.Fan{UserID: userID, FanID: fanID, CreatedAt: time.Now()})
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyFollowing
	}
	return err
}

// Unfollow 取消关注
func (s *UserService) Unfollow(fanID, userID uint) error {
	affected, err := s.fanRepo.Delete(userID, fanID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFans 粉丝列表
func (s *UserService) ListFans(userID uint) ([]UserBrief, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	users, err := s.fanRepo.ListFans(userID)
	if err != nil {
		return nil, err
	}
	return buildUserBriefs(users), nil
}

// ListSubscriptions 关注列表
func (s *UserService) ListSubscriptions(userID uint) ([]UserBrief, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	users, err := s.fanRepo.ListSubscriptions(userID)
	if err != nil {
		return nil, err
	}
	return buildUserBriefs(users), nil
}

func (s *UserService) getUser(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
