package rating

// Mode selects between three-player and four-player tables. Every
// configuration table and ranking view is keyed by it.
type Mode string

const (
	ModeYonma Mode = "4p"
	ModeSanma Mode = "3p"
)

var AllModes = []Mode{ModeYonma, ModeSanma}

func (m Mode) Valid() bool {
	return m == ModeYonma || m == ModeSanma
}

// Players returns the number of seats at a table of this mode.
func (m Mode) Players() int {
	if m == ModeSanma {
		return 3
	}
	return 4
}

// GameLength distinguishes the two supported match lengths.
type GameLength string

const (
	LengthTonpuu  GameLength = "tonpuu"
	LengthHanchan GameLength = "hanchan"
)

func (l GameLength) Valid() bool {
	return l == LengthTonpuu || l == LengthHanchan
}

// Wind is a seat wind in table order. East sits first.
type Wind string

const (
	WindEast  Wind = "east"
	WindSouth Wind = "south"
	WindWest  Wind = "west"
	WindNorth Wind = "north"
)

var windOrder = map[Wind]int{
	WindEast:  0,
	WindSouth: 1,
	WindWest:  2,
	WindNorth: 3,
}

func (w Wind) Valid(mode Mode) bool {
	order, ok := windOrder[w]
	if !ok {
		return false
	}
	return order < mode.Players()
}
