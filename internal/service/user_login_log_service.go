package service

import (
	"strings"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
)

// UserLoginLogService 用户登录日志服务
type UserLoginLogService struct {
	repo repository.UserLoginLogRepository
}

// NewUserLoginLogService 创建用户登录日志服务
func NewUserLoginLogService(repo repository.UserLoginLogRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo}
}

// RecordUserLoginInput 登录日志记录输入
type RecordUserLoginInput struct {
	UserID     uint
	Name       string
	Status     string
	FailReason string
	ClientIP   string
	UserAgent  string
	RequestID  string
}

// Record 记录一次登录尝试，成功时清空失败原因
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	status := constants.LoginLogStatusFailed
	if strings.EqualFold(strings.TrimSpace(input.Status), constants.LoginLogStatusSuccess) {
		status = constants.LoginLogStatusSuccess
	}
	failReason := ""
	if status == constants.LoginLogStatusFailed {
		failReason = strings.ToLower(strings.TrimSpace(input.FailReason))
		if failReason == "" {
			failReason = constants.LoginLogFailReasonInternalError
		}
	}

	name := strings.TrimSpace(input.Name)
	if runes := []rune(name); len(runes) > usernameMaxLength {
		name = string(runes[:usernameMaxLength])
	}

	return s.repo.Create(&models.UserLoginLog{
		UserID:      input.UserID,
		Name:        name,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    strings.TrimSpace(input.ClientIP),
		UserAgent:   strings.TrimSpace(input.UserAgent),
		LoginSource: constants.LoginLogSourceWeb,
		RequestID:   strings.TrimSpace(input.RequestID),
		CreatedAt:   time.Now(),
	})
}

// ListByUser 查询本人登录日志
func (s *UserLoginLogService) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return []models.UserLoginLog{}, 0, nil
	}
	return s.repo.List(repository.UserLoginLogListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// ListForAdmin 管理端按条件查询登录日志
func (s *UserLoginLogService) ListForAdmin(filter repository.UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.UserLoginLog{}, 0, nil
	}
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}
