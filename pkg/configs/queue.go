package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultQueueName       = "artifact:processing" // 处理队列名称
	DefaultQueuePopTimeout = 5                     // 阻塞弹出超时，单位秒
)

// QueueConfig 工作队列配置.
// 队列保证 FIFO 出队顺序，消费端用有界超时的阻塞弹出轮询.
type QueueConfig struct {
	Type       string        `mapstructure:"type"        rule:"oneof=memory,redis"`
	Name       string        `mapstructure:"name"        rule:"required"`
	PopTimeout int           `mapstructure:"pop_timeout" rule:"min=1,max=60"`
	Redis      RedisKVConfig `mapstructure:"redis"`
}

// PopTimeoutDuration 返回阻塞弹出超时.
func (c *QueueConfig) PopTimeoutDuration() time.Duration {
	return time.Duration(c.PopTimeout) * time.Second
}

// setDefaults 设置队列配置的默认值.
func (c *QueueConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.name", DefaultQueueName)
	v.SetDefault("queue.pop_timeout", DefaultQueuePopTimeout)
	v.SetDefault("queue.redis.addr", "localhost:6379")
	v.SetDefault("queue.redis.password", "")
	v.SetDefault("queue.redis.db", 0)
}
