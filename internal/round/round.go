package round

// Phase is the lifecycle position of the current round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingWord
	PhaseDrawing
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingWord:
		return "awaiting_word"
	case PhaseDrawing:
		return "drawing"
	case PhaseResolved:
		return "resolved"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the round as seen by this client. Transitions never mutate the
// receiver; each returns the next value.
type State struct {
	Phase Phase `json:"phase"`

	// Drawer is the nickname of the current drawer, empty while idle.
	Drawer string `json:"drawer,omitempty"`

	// Word is the secret word, only known on the drawer's instance.
	Word string `json:"-"`

	// HasGuessedCorrectly blocks further guesses until the next round.
	HasGuessedCorrectly bool `json:"hasGuessedCorrectly"`
}

// CanDraw reports whether pointer input of self is accepted.
func (s State) CanDraw(self string) bool {
	return s.Phase == PhaseDrawing && self != "" && s.Drawer == self
}

func (s State) GameStarted() State {
	return State{Phase: PhaseAwaitingWord}
}

// DrawTurn starts a new round with user as the drawer.
func (s State) DrawTurn(user string) State {
	return State{Phase: PhaseAwaitingWord, Drawer: user}
}

// WordToDraw moves the drawer's own instance into drawing. Assignments for
// somebody else are ignored. The word may overtake its draw_turn on the
// wire, so an unset drawer is taken from the assignment.
func (s State) WordToDraw(self, user, word string) State {
	if s.Phase != PhaseAwaitingWord || user == "" || user != self {
		return s
	}
	if s.Drawer != "" && s.Drawer != self {
		return s
	}
	s.Drawer = self
	s.Phase = PhaseDrawing
	s.Word = word
	return s
}

// StrokeReceived is the implicit round start of a non-drawer: the first
// drawing traffic of the round.
func (s State) StrokeReceived(self string) State {
	if s.Phase != PhaseAwaitingWord || s.Drawer == self {
		return s
	}
	s.Phase = PhaseDrawing
	return s
}

// RoundStarted is the explicit form of StrokeReceived. The drawer still
// waits for its word.
func (s State) RoundStarted(self, user string) State {
	if user != "" && s.Drawer == "" {
		s.Drawer = user
	}
	return s.StrokeReceived(self)
}

func (s State) GameWon() State {
	if s.Phase != PhaseDrawing && s.Phase != PhaseAwaitingWord {
		return s
	}
	s.Phase = PhaseResolved
	return s
}

// GuessedCorrectly sets the guess lock. The lock only goes from false to
// true within a round.
func (s State) GuessedCorrectly() State {
	if s.Phase == PhaseIdle {
		return s
	}
	s.HasGuessedCorrectly = true
	return s
}
