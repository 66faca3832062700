package service

import (
	"context"

	"Inkstone/internal/api/config"
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/security"
)

type AuthService interface {
	Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
}

type authServiceImpl struct{}

func NewAuthService() AuthService {
	return &authServiceImpl{}
}

// Login 校验配置中的管理员凭证并签发 JWT。
func (s *authServiceImpl) Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.TokenDTO, error) {
	if err := validateDTO(credential); err != nil {
		return nil, err
	}

	admin := config.Cfg.Admin
	if credential.Username != admin.Username {
		return nil, ErrInvalidCredential()
	}
	if err := security.CheckPasswordHash(credential.Password, admin.PasswordHash); err != nil {
		return nil, ErrInvalidCredential()
	}

	token, err := security.GenerateToken(credential.Username)
	if err != nil {
		return nil, ErrUnexpected(err)
	}
	return &dto.TokenDTO{Token: token}, nil
}

// Logout 把令牌签名写入黑名单，存活期与令牌有效期一致。
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrInvalidRequestParameter("非法的令牌")
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", security.JWTExpirationTime)
}
