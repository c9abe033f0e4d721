package utils

import "strconv"

// StringToInt 字符串转 int，失败返回 0
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// StringToUint 路径参数里的数字 ID 转 uint，非法或负数一律返回 0
func StringToUint(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// ClampPage 分页参数兜底：page 最小 1，size 越界退回默认值
func ClampPage(page, size, defSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxSize {
		size = defSize
	}
	return page, size
}
