package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultBreakerEnabled        = true
	DefaultBreakerMaxRequests    = 5
	DefaultBreakerMinRequests    = 10
	DefaultBreakerFailureRate    = 0.5
	DefaultBreakerIntervalSecond = 60
	DefaultBreakerTimeoutSecond  = 30
)

// CircuitBreakerConfig 熔断配置，用于保护对外部文本生成服务的调用.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"`
	MinRequests       uint32  `mapstructure:"min_requests"`
	FailureRate       float64 `mapstructure:"failure_rate"         rule:"min=0,max=1"`
	IntervalSeconds   int     `mapstructure:"interval_seconds"     rule:"min=1"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"      rule:"min=1"`
}

// setDefaults 设置熔断配置的默认值.
func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("breaker.enabled", DefaultBreakerEnabled)
	v.SetDefault("breaker.max_requests_in_half", DefaultBreakerMaxRequests)
	v.SetDefault("breaker.min_requests", DefaultBreakerMinRequests)
	v.SetDefault("breaker.failure_rate", DefaultBreakerFailureRate)
	v.SetDefault("breaker.interval_seconds", DefaultBreakerIntervalSecond)
	v.SetDefault("breaker.timeout_seconds", DefaultBreakerTimeoutSecond)
}
