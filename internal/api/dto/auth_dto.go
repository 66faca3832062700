package dto

// CredentialDTO 管理员登录凭证
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenDTO 登录成功后下发的令牌
type TokenDTO struct {
	Token string `json:"token"`
}
