package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultArtifactBackend       = "s3"             // 默认载荷存储后端
	DefaultArtifactBucket        = "artifactvault"  // 默认存储桶
	DefaultArtifactLocalRoot     = "/tmp/artifacts" // 本地后端根目录
	DefaultArtifactMaxSizeMB     = 100              // 单个制品最大大小（MB）
	DefaultArtifactRetentionDays = 90               // 保留天数
)

// ArtifactConfig 制品存储策略配置.
type ArtifactConfig struct {
	Backend       string `mapstructure:"backend"        rule:"oneof=s3,local"`
	Bucket        string `mapstructure:"bucket"         rule:"required"`
	LocalRoot     string `mapstructure:"local_root"`
	MaxSizeMB     int    `mapstructure:"max_size_mb"    rule:"min=1,max=1024"`
	RetentionDays int    `mapstructure:"retention_days" rule:"min=0"`
}

// MaxUploadBytes 返回单次上传允许的最大字节数.
func (c *ArtifactConfig) MaxUploadBytes() int64 {
	const bytesPerMB = 1024 * 1024
	return int64(c.MaxSizeMB) * bytesPerMB
}

// RetentionDuration 返回保留窗口.
func (c *ArtifactConfig) RetentionDuration() time.Duration {
	const hoursPerDay = 24
	return time.Duration(c.RetentionDays) * hoursPerDay * time.Hour
}

// setDefaults 设置制品策略的默认值.
func (c *ArtifactConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("artifact.backend", DefaultArtifactBackend)
	v.SetDefault("artifact.bucket", DefaultArtifactBucket)
	v.SetDefault("artifact.local_root", DefaultArtifactLocalRoot)
	v.SetDefault("artifact.max_size_mb", DefaultArtifactMaxSizeMB)
	v.SetDefault("artifact.retention_days", DefaultArtifactRetentionDays)
}
