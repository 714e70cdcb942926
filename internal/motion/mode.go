package motion

// Mode selects which impact signal is sent and the idle face colour.
type Mode int

const (
	Light Mode = iota
	Heavy
)

// Impact paths understood by the paired phone.
const (
	PathLight = "x"
	PathHeavy = "y"
)

func (m Mode) String() string {
	if m == Heavy {
		return "Heavy"
	}
	return "Light"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Heavy {
		return Light
	}
	return Heavy
}

// Path returns the outbound message path for impacts in this mode.
func (m Mode) Path() string {
	if m == Heavy {
		return PathHeavy
	}
	return PathLight
}
