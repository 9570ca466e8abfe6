package service

import (
	"errors"
)

var (
	// ErrPayloadTooLarge 上传载荷超过配置的最大字节数，拒绝且无任何副作用.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrNotFound 制品不存在.查询路径上这是正常结果而不是故障.
	ErrNotFound = errors.New("artifact not found")
	// ErrBackendUnavailable 元数据或队列后端不可用.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
