package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout 业务日期统一格式
const DateLayout = "2006-01-02"

// ParseDate 解析 "YYYY-MM-DD" 业务日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期格式 %q", s)
	}
	return t, nil
}

// FormatDate 将业务日期格式化为 "YYYY-MM-DD"。
// DATE 列经 pgx 扫描后是 time.Time，对外输出与比较一律走这里
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// minutesPerDay 一天的总分钟数，窗口不允许跨午夜
const minutesPerDay = 24 * 60

// ParseClock 将 "HH:MM" 或 "HH:MM:SS" 解析为当日分钟数。
// PostgreSQL TIME 列扫描出的字符串带秒，请求参数通常不带，两者都接受；秒位被截断。
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	return h*60 + m, nil
}

// FormatClock 将当日分钟数格式化为 "HH:MM"
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Weekday 返回日期对应的星期序号（周一=0 .. 周日=6）
func Weekday(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("无效的日期格式 %q", date)
	}
	return (int(t.Weekday()) + 6) % 7, nil
}

// TimeWindow 同一日期上的半开时间区间 [Start, End)，单位为当日分钟数
type TimeWindow struct {
	Date  string
	Start int
	End   int
}

// NewTimeWindow 由开始时间与时长构造窗口。
// 结束时刻超出当日 24:00 视为非法（跨午夜的窗口不受支持）。
func NewTimeWindow(date, start string, durationMinutes int) (TimeWindow, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return TimeWindow{}, fmt.Errorf("无效的日期格式 %q", date)
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	if durationMinutes <= 0 {
		return TimeWindow{}, fmt.Errorf("时长必须为正: %d", durationMinutes)
	}
	end := startMin + durationMinutes
	if end > minutesPerDay {
		return TimeWindow{}, fmt.Errorf("预订窗口不能跨越午夜（%s + %d分钟）", start, durationMinutes)
	}
	return TimeWindow{Date: date, Start: startMin, End: end}, nil
}

// Overlaps 半开区间重叠判定：恰好首尾相接的两个窗口不算重叠
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	if w.Date != o.Date {
		return false
	}
	return w.Start < o.End && o.Start < w.End
}
