package ui

type state int

const (
	stateMain state = iota
	stateIntervalInput
	stateDurationInput
)

func (s state) String() string {
	switch s {
	case stateMain:
		return "Main"
	case stateIntervalInput:
		return "IntervalInput"
	case stateDurationInput:
		return "DurationInput"
	default:
		return "Unknown"
	}
}
