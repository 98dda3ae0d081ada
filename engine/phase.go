package engine

// Phase is the turn engine's position in the turn cycle.
type Phase int

const (
	PhaseAwaitingInput Phase = iota
	PhaseApplyingPlayerAction
	PhaseRunningNPCs
	PhaseEvaluating
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseApplyingPlayerAction:
		return "applying_player_action"
	case PhaseRunningNPCs:
		return "running_npcs"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseTerminal:
		return "terminal"
	}
	return "unknown"
}
