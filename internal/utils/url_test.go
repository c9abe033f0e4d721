package utils

import "testing"

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://example.com/news/a", true},
		{"http://example.com", true},
		{"  https://example.com  ", true},
		{"/news/a", false},
		{"example.com/a", false},
		{"ftp://example.com/a", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidURL(tc.raw); got != tc.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeURLStripsTracking(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
	}{
		{"utm参数", "https://example.com/a?utm_source=x&utm_medium=y", "https://example.com/a"},
		{"fbclid", "https://example.com/a?fbclid=abc123", "https://example.com/a"},
		{"fragment", "https://example.com/a#section", "https://example.com/a"},
		{"host大小写", "https://EXAMPLE.com/a", "https://example.com/a"},
		{"尾部斜杠", "https://example.com/a/", "https://example.com/a"},
		{"混合", "https://Example.com/a/?utm_campaign=z&gclid=1#top", "https://example.com/a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeURL(tc.a); got != NormalizeURL(tc.b) {
				t.Errorf("同一来源的两种写法规范化后不一致: %q vs %q", got, NormalizeURL(tc.b))
			}
		})
	}
}

func TestNormalizeURLKeepsMeaningfulQuery(t *testing.T) {
	// 业务参数不能被误删，否则不同文章会被判成重复
	got := NormalizeURL("https://example.com/article?id=42&utm_source=x")
	want := "https://example.com/article?id=42"
	if got != want {
		t.Errorf("NormalizeURL = %q, want %q", got, want)
	}
}

func TestStripToPath(t *testing.T) {
	got := StripToPath("https://Example.com/news/a/?ref=share#top")
	want := "https://example.com/news/a"
	if got != want {
		t.Errorf("StripToPath = %q, want %q", got, want)
	}
}
