package consts

const (
	// TokenBlacklistKey 已登出 Token 签名黑名单
	TokenBlacklistKey = "auth:token:blacklist:"
	// ImagePendingKey 待引用图片元数据 Hash
	ImagePendingKey = "image:pending"
	// PostPreviewKey 文章预览渲染缓存
	PostPreviewKey = "post:preview:"
)
