package main

import (
	"github.com/fatih/color"

	"github.com/thermoreg/thermoreg/pkg/sim"
)

var bold = color.New(color.Bold).SprintFunc()

func stateColored(s sim.OperatingState) string {
	switch s {
	case sim.StateCooling:
		return color.CyanString(string(s))
	case sim.StateHeating:
		return color.RedString(string(s))
	case sim.StateCharging:
		return color.YellowString(string(s))
	case sim.StateFinish:
		return color.GreenString(string(s))
	default:
		return string(s)
	}
}
