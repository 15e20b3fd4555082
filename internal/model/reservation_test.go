package model

import (
	"testing"
	"time"
)

// DATE 列经 pgx 扫描后是带零点时刻的 time.Time（可能还带会话时区），
// 窗口推导必须只取日期分量
func TestReservation_Window_FromScannedDate(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
	}{
		{"UTC零点", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"带会话时区", time.Date(2026, 1, 5, 0, 0, 0, 0, time.FixedZone("CST", 8*3600))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Reservation{
				ReservationDate: tc.date,
				StartTime:       "18:30",
				DurationMinutes: 90,
			}
			w, err := r.Window()
			if err != nil {
				t.Fatalf("Window 应成功: %v", err)
			}
			if w.Date != "2026-01-05" {
				t.Errorf("期望窗口日期 2026-01-05，得到 %s", w.Date)
			}
			if w.Start != 1110 || w.End != 1200 {
				t.Errorf("期望窗口 [1110, 1200)，得到 [%d, %d)", w.Start, w.End)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-05")
	if err != nil {
		t.Fatalf("解析合法日期失败: %v", err)
	}
	if FormatDate(d) != "2026-01-05" {
		t.Errorf("期望回写 2026-01-05，得到 %s", FormatDate(d))
	}

	for _, bad := range []string{"2026-01-05T00:00:00Z", "05/01/2026", "abc", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("%q 不应被解析为业务日期", bad)
		}
	}
}
