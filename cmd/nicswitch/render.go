package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

var (
	connectedColor    = color.New(color.FgGreen)
	notConnectedColor = color.New(color.FgRed)
	unknownColor      = color.New(color.FgHiBlack)
	warningColor      = color.New(color.FgYellow)
	headerColor       = color.New(color.Bold)
)

func stateColor(state entities.AdapterState) *color.Color {
	switch state {
	case entities.AdapterConnected:
		return connectedColor
	case entities.AdapterNotConnected:
		return notConnectedColor
	default:
		return unknownColor
	}
}

func stateLabel(state entities.AdapterState) string {
	switch state {
	case entities.AdapterConnected:
		return "Connected"
	case entities.AdapterNotConnected:
		return "Not connected"
	default:
		return "Unknown"
	}
}

func nameWidth(adapters []entities.Adapter) int {
	width := len("ADAPTER")
	for _, a := range adapters {
		width = max(width, len(a.Name))
	}
	return width
}

func printAdapters(w io.Writer, adapters []entities.Adapter) {
	width := nameWidth(adapters)
	headerColor.Fprintf(w, "%-*s  %s\n", width, "ADAPTER", "STATE")
	for _, a := range adapters {
		fmt.Fprintf(w, "%-*s  %s\n", width, a.Name, stateColor(a.State).Sprint(stateLabel(a.State)))
	}
}

func printStatusLine(w io.Writer, at time.Time, adapters []entities.Adapter) {
	parts := make([]string, 0, len(adapters))
	for _, a := range adapters {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Name, stateColor(a.State).Sprint(stateLabel(a.State))))
	}
	fmt.Fprintf(w, "%s  %s\n", at.Format(time.TimeOnly), strings.Join(parts, "  "))
}

func printResult(w io.Writer, result entities.ToggleResult) {
	fmt.Fprintln(w, result.String())
	if result.Warning != nil {
		warningColor.Fprintf(w, "Warning: %v\n", result.Warning)
	}
}
