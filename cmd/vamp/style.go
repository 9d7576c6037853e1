package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/williambl/vampilang/pkg/stdlib"
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

var (
	valueStyle  = lipgloss.NewStyle().Bold(true)
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// errorNamer names types in error messages.
var errorNamer = stdlib.NewEnvironment().Namer()

func describeError(err error) string {
	return vamp.DescribeError(err, errorNamer)
}

// renderPayload formats a runtime payload for display.
func renderPayload(p any) string {
	switch x := p.(type) {
	case []vtype.Value:
		items := make([]string, len(x))
		for i, v := range x {
			items[i] = renderPayload(v.Payload)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case stdlib.OptionalValue:
		if !x.Present {
			return "none"
		}
		return "some(" + renderPayload(x.Value) + ")"
	case stdlib.Case:
		return renderPayload(x.When) + " => " + renderPayload(x.Then)
	case *vamp.Thunk:
		return "<lambda>"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprint(x)
	}
}
