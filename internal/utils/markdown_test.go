package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasic(t *testing.T) {
	out := RenderMarkdown("**bold** and [link](https://example.com)")
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("加粗未渲染: %s", out)
	}
	if !strings.Contains(out, `href="https://example.com"`) {
		t.Errorf("链接未渲染: %s", out)
	}
}

func TestRenderMarkdownSanitizesScript(t *testing.T) {
	out := RenderMarkdown(`hello <script>alert("xss")</script>`)
	if strings.Contains(out, "<script") {
		t.Errorf("脚本标签未被消毒: %s", out)
	}
}

func TestRandStringLengthAndCharset(t *testing.T) {
	id := RandStringBytesMaskImpr(8)
	if len(id) != 8 {
		t.Fatalf("短 ID 长度错误: %d", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(letterBytes, r) {
			t.Errorf("短 ID 含非法字符: %q", r)
		}
	}
}
