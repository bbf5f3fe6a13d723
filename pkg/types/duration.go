package types

import (
	"math"
	"time"
)

// DurationInfinite 无限时长哨兵
//
// 作为超时参数时表示"永不超时"。接近该值的超时在换算为绝对
// 截止时刻时必须饱和为"永不"，而不是发生整数回绕。
const DurationInfinite = time.Duration(math.MaxInt64)

// IsInfinite 判断时长是否为无限哨兵
func IsInfinite(d time.Duration) bool {
	return d == DurationInfinite
}

// AbsDeadline 计算绝对截止时刻
//
// 返回 (deadline, never)。负超时按已到期处理，截止时刻即 now，
// 不能进入饱和判断（相减会回绕成"永不"）。当 now + timeout 会
// 越过无限哨兵时，never 为 true，表示该等待没有截止时刻。
func AbsDeadline(now time.Time, timeout time.Duration) (time.Time, bool) {
	if timeout < 0 {
		return now, false
	}
	if int64(DurationInfinite)-int64(timeout) <= now.UnixNano() {
		return time.Time{}, true
	}
	return now.Add(timeout), false
}
