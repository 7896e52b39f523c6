package scene

import (
	"slices"

	"github.com/spaghettifunk/scenebridge/engine/evaluator"
)

type StateMachineInput struct {
	Name string
	/** @brief One of "bool", "number", "trigger" or "unknown". */
	Type string
}

type StateMachine struct {
	Name   string
	Inputs []StateMachineInput
}

// newStateMachines copies the descriptors so later evaluator changes cannot leak in.
func newStateMachines(descs []evaluator.StateMachineDesc) []StateMachine {
	out := make([]StateMachine, len(descs))
	for i, d := range descs {
		inputs := make([]StateMachineInput, len(d.Inputs))
		for j, in := range d.Inputs {
			inputs[j] = StateMachineInput{Name: in.Name, Type: in.Type.String()}
		}
		out[i] = StateMachine{Name: d.Name, Inputs: inputs}
	}
	return out
}

func cloneStateMachines(machines []StateMachine) []StateMachine {
	out := slices.Clone(machines)
	for i := range out {
		out[i].Inputs = slices.Clone(out[i].Inputs)
	}
	return out
}
