// Package configs 管理应用程序配置，包括服务器、对象存储、元数据 KV、工作队列与制品策略.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing Artifact config:
//
//	config := configs.GetConfig()
//	fmt.Println("max upload bytes:", config.Artifact.MaxUploadBytes())
//	fmt.Println("retention:", config.Artifact.RetentionDuration())
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号，构建时可通过 ldflags 覆盖.
var AppVersion = "dev"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server   ServerConfig         `mapstructure:"server"`   // ServerConfig 服务器端口、调试模式等
		Log      LogConfig            `mapstructure:"log"`      // LogConfig 日志相关配置
		S3       S3Config             `mapstructure:"s3"`       // S3Config 对象存储配置
		KV       KVConfig             `mapstructure:"kv"`       // KVConfig 元数据存储配置
		Queue    QueueConfig          `mapstructure:"queue"`    // QueueConfig 工作队列配置
		Artifact ArtifactConfig       `mapstructure:"artifact"` // ArtifactConfig 制品存储策略
		GenAI    GenAIConfig          `mapstructure:"genai"`    // GenAIConfig 文本生成服务配置
		Metrics  MetricsConfig        `mapstructure:"metrics"`  // MetricsConfig 监控指标配置
		Breaker  CircuitBreakerConfig `mapstructure:"breaker"`  // CircuitBreakerConfig 熔断配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 配置文件缺失时回退到默认值，便于本地快速启动.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 是文件，使用SetConfigFile，Viper会自动检测类型
		appViper.SetConfigFile(path)
	} else {
		// 是目录，设置配置名和路径
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("ARTIFACTVAULT")

	// 读取配置
	if err := appViper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 解析到全局配置
	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var serverConfig ServerConfig

	var logConfig LogConfig

	var s3Config S3Config

	var kvConfig KVConfig

	var queueConfig QueueConfig

	var artifactConfig ArtifactConfig

	var genaiConfig GenAIConfig

	var metricsConfig MetricsConfig

	var breakerConfig CircuitBreakerConfig

	serverConfig.setDefaults(v)
	logConfig.setDefaults(v)
	s3Config.setDefaults(v)
	kvConfig.setDefaults(v)
	queueConfig.setDefaults(v)
	artifactConfig.setDefaults(v)
	genaiConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	breakerConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
