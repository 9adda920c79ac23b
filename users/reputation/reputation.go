// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package reputation holds the fixed reputation deltas and badge thresholds.
package reputation

import "github.com/qolzam/devflow/shared/interfaces"

// Points for authoring content.
const (
	AskQuestion = 5
	PostAnswer  = 10
)

// Deltas is the pair applied for one vote: to the voter and to the target's author.
type Deltas struct {
	Voter  int
	Author int
}

// Negate returns the deltas that undo d.
func (d Deltas) Negate() Deltas {
	return Deltas{Voter: -d.Voter, Author: -d.Author}
}

// Add sums two delta pairs.
func (d Deltas) Add(o Deltas) Deltas {
	return Deltas{Voter: d.Voter + o.Voter, Author: d.Author + o.Author}
}

var voteDeltas = map[string]map[int]Deltas{
	interfaces.TargetQuestion: {
		interfaces.VoteUp:   {Voter: 1, Author: 10},
		interfaces.VoteDown: {Voter: -1, Author: -2},
	},
	interfaces.TargetAnswer: {
		interfaces.VoteUp:   {Voter: 2, Author: 10},
		interfaces.VoteDown: {Voter: -2, Author: -10},
	},
}

// ForVote returns the deltas for casting direction on targetType.
// Unknown combinations, including VoteNone, yield zero deltas.
func ForVote(targetType string, direction int) Deltas {
	return voteDeltas[targetType][direction]
}

// Transition returns the deltas for moving a vote from one direction to another.
// Retraction is Transition(t, dir, VoteNone); a switch reverses the old direction and applies the new.
func Transition(targetType string, from, to int) Deltas {
	return ForVote(targetType, from).Negate().Add(ForVote(targetType, to))
}
