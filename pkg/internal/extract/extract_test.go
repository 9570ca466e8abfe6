package extract_test

import (
	"strings"
	"testing"

	"github.com/yeisme/artifactvault/pkg/internal/extract"
)

func TestTextPlain(t *testing.T) {
	got, err := extract.Text([]byte("hello 世界"), "text/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got != "hello 世界" {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestTextPlainWithCharset(t *testing.T) {
	got, err := extract.Text([]byte("abc"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got != "abc" {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestTextInvalidUTF8(t *testing.T) {
	got, err := extract.Text([]byte{'a', 0xff, 'b'}, "text/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// 非法字节被丢弃而不是替换成 U+FFFD
	if got != "ab" {
		t.Fatalf("lossy decode must drop invalid bytes: %q", got)
	}
}

func TestTextInvalidUTF8Sequences(t *testing.T) {
	// 多段非法序列夹杂合法多字节字符
	input := append([]byte("héllo"), 0xfe, 0xff)
	input = append(input, []byte(" 世界")...)
	input = append(input, 0x80)

	got, err := extract.Text(input, "text/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got != "héllo 世界" {
		t.Fatalf("unexpected decode result: %q", got)
	}
}

func TestTextPlaceholders(t *testing.T) {
	pdf, _ := extract.Text([]byte("%PDF-1.4"), "application/pdf")
	if !strings.Contains(pdf, "PDF") {
		t.Fatalf("unexpected pdf placeholder: %s", pdf)
	}

	docx, _ := extract.Text([]byte("PK"), extract.ContentTypeDOCX)
	if !strings.Contains(docx, "DOCX") {
		t.Fatalf("unexpected docx placeholder: %s", docx)
	}
}

func TestTextUnsupported(t *testing.T) {
	got, _ := extract.Text([]byte{0x00}, "image/png")
	if !strings.Contains(got, "Unsupported content type") {
		t.Fatalf("unexpected marker: %s", got)
	}
}
