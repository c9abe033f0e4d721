package utils

import "testing"

func TestStringToUint(t *testing.T) {
	cases := []struct {
		raw  string
		want uint
	}{
		{"42", 42},
		{"0", 0},
		{"-1", 0},
		{"abc", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := StringToUint(tc.raw); got != tc.want {
			t.Errorf("StringToUint(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"正常值原样返回", 2, 30, 2, 30},
		{"page为零兜底为1", 0, 20, 1, 20},
		{"size为负退回默认", 1, -5, 1, 20},
		{"size超上限退回默认", 1, 999, 1, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := ClampPage(tc.page, tc.size, 20, 100)
			if page != tc.wantPage || size != tc.wantSize {
				t.Errorf("ClampPage = (%d, %d), want (%d, %d)", page, size, tc.wantPage, tc.wantSize)
			}
		})
	}
}
