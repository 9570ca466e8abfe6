// Package model 定义制品元数据与处理结果的核心数据结构.
package model

import (
	"time"
)

// ProcessingStatus 制品处理状态.
// 状态机：pending → processing → {completed | failed}，failed 可重新入队回到 processing.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Valid 检查状态是否是已知值.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}

	return false
}

// Artifact 单个制品的元数据记录，以 artifact_id 为主键持久化在元数据存储中.
//
// ArtifactID、SizeBytes、ContentHash、StoragePath、UploadTimestamp 创建后不可变；
// ProcessingStatus、ProcessedTimestamp、ExtractedText 由处理流程更新.
type Artifact struct {
	ArtifactID         string           `json:"artifact_id"`
	Filename           string           `json:"filename"`
	ContentType        string           `json:"content_type"`
	SizeBytes          int64            `json:"size_bytes"`
	ContentHash        string           `json:"content_hash"`
	StoragePath        string           `json:"storage_path"`
	ProcessingStatus   ProcessingStatus `json:"processing_status"`
	UploadTimestamp    time.Time        `json:"upload_timestamp"`
	ProcessedTimestamp *time.Time       `json:"processed_timestamp,omitempty"`
	ExtractedText      string           `json:"extracted_text,omitempty"`
	UserID             string           `json:"user_id,omitempty"`
	Tags               []string         `json:"tags"`
}

// ProcessingResult 一次处理的结果.处理永远返回结果对象而不是向上抛错.
type ProcessingResult struct {
	ArtifactID        string  `json:"artifact_id"`
	Success           bool    `json:"success"`
	ExtractedText     string  `json:"extracted_text,omitempty"`
	ErrorMessage      string  `json:"error_message,omitempty"`
	ProcessingSeconds float64 `json:"processing_time_seconds"`
}
