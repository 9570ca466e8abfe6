package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultGenAIEndpoint  = "http://localhost:8000/v1/completions" // 文本生成服务端点
	DefaultGenAIFastModel = "gemini-2.0-flash"                     // 快速模型
	DefaultGenAIProModel  = "gemini-2.5-pro"                       // 高质量模型
	DefaultGenAITimeout   = 120                                    // 请求超时，单位秒
)

// GenAIConfig 文本生成服务配置.
// 该服务是外部协作方，内部行为不在本仓库范围内.
type GenAIConfig struct {
	Endpoint  string `mapstructure:"endpoint"   rule:"required"`
	APIKey    string `mapstructure:"api_key"`
	FastModel string `mapstructure:"fast_model"`
	ProModel  string `mapstructure:"pro_model"`
	Timeout   int    `mapstructure:"timeout"    rule:"min=1,max=600"`
}

// TimeoutDuration 返回请求超时.
func (c *GenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// setDefaults 设置文本生成配置的默认值.
func (c *GenAIConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("genai.endpoint", DefaultGenAIEndpoint)
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.fast_model", DefaultGenAIFastModel)
	v.SetDefault("genai.pro_model", DefaultGenAIProModel)
	v.SetDefault("genai.timeout", DefaultGenAITimeout)
}
