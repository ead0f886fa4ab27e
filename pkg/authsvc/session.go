package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"katydid-common-auth/pkg/config"
	"katydid-common-auth/pkg/idgen"
)

// 会话相关错误定义
var (
	// ErrSessionInvalid 令牌非法（签名错误、格式错误、声明缺失）
	ErrSessionInvalid = errors.New("authsvc: invalid session token")
	// ErrSessionRevoked 令牌已注销或已过期（会话存储中不存在）
	ErrSessionRevoked = errors.New("authsvc: session revoked or expired")
)

// sessionKeyPrefix 会话在 Redis 里的键前缀
const sessionKeyPrefix = "session:"

// Claims 会话令牌的声明
type Claims struct {
	jwt.RegisteredClaims
	// Email 账户邮箱，避免会话校验后再查库
	Email string `json:"email"`
}

// UserID 从 Subject 声明中解析账户ID
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrSessionInvalid)
	}
	return id, nil
}

// TokenStore 会话存储接口，记录在途会话并支持显式注销
type TokenStore interface {
	// Save 记录会话，ttl 后自动过期
	Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error
	// Exists 检查会话是否在途
	Exists(ctx context.Context, jti string) (bool, error)
	// Delete 注销会话
	Delete(ctx context.Context, jti string) error
}

// redisTokenStore TokenStore 的 Redis 实现
type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore 创建 Redis 会话存储
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+jti, userID, ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+jti).Result()
	return n > 0, err
}

func (s *redisTokenStore) Delete(ctx context.Context, jti string) error {
	return s.client.Del(ctx, sessionKeyPrefix+jti).Err()
}

// SessionManager 会话管理器：签发、校验、注销
//
// 令牌为 HS256 签名的 JWT，jti 由 Snowflake 生成器分配；
// 会话存储记录在途的 jti，注销即删除，校验时双重检查
// （签名有效 且 会话在途）
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	ids    *idgen.Generator
	store  TokenStore
}

// NewSessionManager 创建会话管理器
func NewSessionManager(cfg config.JWTConfig, ids *idgen.Generator, store TokenStore) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("authsvc: jwt secret is required")
	}
	if ids == nil || store == nil {
		return nil, errors.New("authsvc: session manager dependencies missing")
	}
	return &SessionManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		ids:    ids,
		store:  store,
	}, nil
}

// Issue 为账户签发会话令牌
func (m *SessionManager) Issue(ctx context.Context, user *User) (string, error) {
	jtiID, err := m.ids.NextID()
	if err != nil {
		return "", err
	}
	jti := strconv.FormatInt(jtiID, 10)

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: user.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", err
	}
	if err := m.store.Save(ctx, jti, user.ID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Validate 校验会话令牌
// 签名非法返回 ErrSessionInvalid，会话已注销返回 ErrSessionRevoked
func (m *SessionManager) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	alive, err := m.store.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !alive {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke 注销会话令牌（幂等：重复注销不报错）
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, claims.ID)
}

// parse 解析并校验令牌签名
func (m *SessionManager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrSessionInvalid, t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrSessionInvalid
	}
	if claims.ID == "" {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
