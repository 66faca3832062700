package consts

const (
	MimePrefixImage = "image"
)

// 文章默认语言
const (
	DefaultLanguage = "ko"
)

// 图片暂存区的保留时长（秒），超时未被引用的图片由定时任务清理
const (
	PendingImageTTLSeconds = 24 * 60 * 60
)
