package lock

import "time"

// Level is the severity of the remaining lock time.
type Level int

const (
	Normal Level = iota
	Warning
	Critical
	Expired
)

const (
	WarningBelow  = 5 // minutes
	CriticalBelow = 2 // minutes
)

func (l Level) String() string {
	switch l {
	case Normal:
		return "normal"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// CanExtend reports whether an extension may be requested at this level.
func (l Level) CanExtend() bool {
	return l == Warning || l == Critical
}

// Classify maps a remaining duration to its level using whole minutes.
func Classify(remaining time.Duration) Level {
	if remaining <= 0 {
		return Expired
	}
	minutes := int64(remaining / time.Minute)
	switch {
	case minutes < CriticalBelow:
		return Critical
	case minutes < WarningBelow:
		return Warning
	default:
		return Normal
	}
}
