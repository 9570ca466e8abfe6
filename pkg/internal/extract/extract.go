// Package extract 按内容类型分发文本抽取.
//
// 纯文本直接解码；PDF/DOCX 的真实解析不在本仓库范围内，返回占位文本；
// 未知类型返回带标记的提示串.抽取失败不向上抛错，由调用方决定如何处置.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Text 从载荷字节中抽取文本.
func Text(data []byte, contentType string) (string, error) {
	// content_type 可能带 "; charset=..." 参数
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	switch mediaType {
	case ContentTypeText:
		return decodePlainText(data), nil
	case ContentTypePDF:
		return "[PDF text extraction placeholder]", nil
	case ContentTypeDOCX:
		return "[DOCX text extraction placeholder]", nil
	default:
		return fmt.Sprintf("[Unsupported content type: %s]", contentType), nil
	}
}

// decodePlainText UTF-8 解码，非法字节直接丢弃后继续，与"忽略错误"的宽容解码语义一致.
func decodePlainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			// 非法字节，跳过
			data = data[1:]
			continue
		}

		b.Write(data[:size])
		data = data[size:]
	}

	return b.String()
}
