package authsvc

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"katydid-common-auth/pkg/config"
)

// ErrUserNotFound 账户不存在
var ErrUserNotFound = errors.New("authsvc: user not found")

// Store 账户存储接口
type Store interface {
	// Create 创建账户
	Create(ctx context.Context, user *User) error
	// FindByEmail 按邮箱查找账户，不存在时返回 ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
	// EmailExists 检查邮箱是否已注册
	EmailExists(ctx context.Context, email string) (bool, error)
	// UsernameExists 检查用户名是否已占用
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Open 按配置打开数据库连接
// Driver 决定 gorm 方言：sqlite / mysql / postgres
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("authsvc: unsupported database driver '%s'", cfg.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// AutoMigrate 同步账户表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

// gormStore Store 的 gorm 实现
type gormStore struct {
	db *gorm.DB
}

// NewStore 创建 gorm 账户存储
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
