package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/artifactvault/pkg/rule"
)

// uploadForm 用于测试 ValidateStruct.
type uploadForm struct {
	Filename string `rule:"required"`
	Limit    int    `rule:"gte=0"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	valid := uploadForm{Filename: "report.pdf", Limit: 10}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 缺少 Filename
	if err := rule.ValidateStruct(uploadForm{Limit: 10}); err == nil {
		t.Error("Expected error for missing filename, got nil")
	}

	// Limit 为负
	if err := rule.ValidateStruct(uploadForm{Filename: "a.txt", Limit: -1}); err == nil {
		t.Error("Expected error for negative limit, got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("completed", "oneof=pending processing completed failed"); err != nil {
		t.Errorf("Expected no error for valid status, got %v", err)
	}

	if err := rule.ValidateVar("done", "oneof=pending processing completed failed"); err == nil {
		t.Error("Expected error for invalid status, got nil")
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	// sha256 十六进制字符串长度必须为 64
	err := rule.RegisterValidation("sha256_hex", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(str) == 64
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	valid := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if err := rule.ValidateVar(valid, "sha256_hex"); err != nil {
		t.Errorf("Expected no error for valid hash, got %v", err)
	}

	if err := rule.ValidateVar("deadbeef", "sha256_hex"); err == nil {
		t.Error("Expected error for short hash, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("artifact_id", "required,uuid4")

	if err := rule.ValidateVar("8f14e45f-ceea-4e7a-9a3c-0a1b2c3d4e5f", "artifact_id"); err != nil {
		t.Errorf("Expected no error for valid id, got %v", err)
	}

	if err := rule.ValidateVar("not-a-uuid", "artifact_id"); err == nil {
		t.Error("Expected error for invalid id, got nil")
	}
}
