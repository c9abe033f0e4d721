package utils

import (
	"net/url"
	"strings"
)

// 各平台常见的跟踪参数，规范化时全部去掉
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"igshid":   true,
	"mc_cid":   true,
	"mc_eid":   true,
	"ref":      true,
	"spm":      true,
	"yclid":    true,
	"_ga":      true,
	"partner":  true,
	"cmpid":    true,
	"ocid":     true,
	"smid":     true,
	"share_id": true,
}

// IsValidURL 校验是否为带 scheme 和 host 的绝对 URL
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeURL 规范化来源链接：去掉跟踪参数和 fragment，小写 host，去掉尾部斜杠
// 结果作为文章去重的唯一键
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}

// StripToPath 去掉 query 和 fragment，只保留 scheme+host+path
// Reddit url 精确匹配策略使用这个更激进的形态
func StripToPath(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}
