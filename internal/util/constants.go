package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Upload constraints for avatar images.
const (
	MimeImage         = "image/"
	MaxAvatarSize     = 5 << 20
	MaxQuestionRunes  = 500
	MaxHintRunes      = 1000
	MaxImageDataBytes = 8 << 20
)

var AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
