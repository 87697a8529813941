// Package gamefsm represents (state, phase) as a tagged sum and statically
// enumerates which commands are legal in each tag, per spec.md §9 ("Phase
// as state machine... Illegal transitions are a closed set"). Every
// command re-reads its tag fresh from a locked database row at the start
// of a transaction (spec.md §5), so the closed set of legal
// (tag, command) pairs is expressed as a plain lookup table rather than
// an in-process, long-lived state object.
package gamefsm

import (
	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
)

// Command is one of the external commands of spec.md §4.6.
type Command string

const (
	CreateGame  Command = "create_game"
	JoinGame    Command = "join_game"
	AddAI       Command = "add_ai"
	Ready       Command = "ready"
	Bid         Command = "bid"
	ChooseTrump Command = "trump"
	PlayCard    Command = "play"
	GetState    Command = "get_state"
	DeleteGame  Command = "delete_game"
)

// Tag is the (state, phase) pair a Game is in. Phase is the zero value for
// Waiting/Completed games, which have no phase.
type Tag struct {
	State model.GameState
	Phase model.GamePhase
}

// legal enumerates, for each tag, the commands acceptable against it. This
// is the closed set spec.md §9 calls for; the dispatcher in
// internal/orchestrator consults it before any mutation.
var legal = map[Tag]map[Command]bool{
	{State: model.GameWaiting}: {
		JoinGame: true, AddAI: true, Ready: true, GetState: true, DeleteGame: true,
	},
	{State: model.GameStarted, Phase: model.PhaseBidding}: {
		Bid: true, GetState: true,
	},
	{State: model.GameStarted, Phase: model.PhaseTrumpSelect}: {
		ChooseTrump: true, GetState: true,
	},
	{State: model.GameStarted, Phase: model.PhasePlaying}: {
		PlayCard: true, GetState: true,
	},
	{State: model.GameStarted, Phase: model.PhaseScoring}: {
		GetState: true,
	},
	{State: model.GameCompleted}: {
		GetState: true, DeleteGame: true,
	},
}

// Check returns nil if cmd is legal against tag, or a StateConflict /
// PhaseConflict *apierrors.Error otherwise. create_game is legal from any
// tag (it creates a new Game rather than acting on an existing one) and is
// not represented in the table.
func Check(tag Tag, cmd Command) error {
	cmds, ok := legal[tag]
	if !ok || !cmds[cmd] {
		if tag.State != model.GameStarted {
			return apierrors.New(apierrors.StateConflict, "command %s not valid in state %s", cmd, tag.State)
		}
		return apierrors.New(apierrors.PhaseConflict, "command %s not valid in phase %s", cmd, tag.Phase)
	}
	return nil
}
