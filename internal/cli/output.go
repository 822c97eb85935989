package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"saham-workbench/internal/models"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

var ansiPattern = regexp.MustCompile(`\033\[[0-9;]*m`)

// Output handles formatted terminal output with optional JSON mode.
type Output struct {
	jsonMode bool
	color    bool
}

func NewOutput(jsonMode, color bool) *Output {
	return &Output{jsonMode: jsonMode, color: color}
}

func (o *Output) paint(code, s string) string {
	if !o.color {
		return s
	}
	return code + s + colorReset
}

func (o *Output) Success(format string, args ...interface{}) {
	if o.jsonMode {
		return
	}
	fmt.Println(o.paint(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func (o *Output) Error(format string, args ...interface{}) {
	if o.jsonMode {
		return
	}
	fmt.Fprintln(os.Stderr, o.paint(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}

func (o *Output) Warning(format string, args ...interface{}) {
	if o.jsonMode {
		return
	}
	fmt.Println(o.paint(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func (o *Output) Info(format string, args ...interface{}) {
	if o.jsonMode {
		return
	}
	fmt.Println(o.paint(colorCyan, fmt.Sprintf(format, args...)))
}

func (o *Output) Plain(format string, args ...interface{}) {
	if o.jsonMode {
		return
	}
	fmt.Printf(format+"\n", args...)
}

func (o *Output) Header(s string) {
	if o.jsonMode {
		return
	}
	fmt.Println(o.paint(colorBold, s))
}

// JSON emits v as indented JSON regardless of mode.
func (o *Output) JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (o *Output) JSONMode() bool {
	return o.jsonMode
}

// Direction colors a direction value green/red/yellow for terminals.
func (o *Output) Direction(d models.Direction) string {
	switch d {
	case models.DirectionUp:
		return o.paint(colorGreen, string(d))
	case models.DirectionDown:
		return o.paint(colorRed, string(d))
	case models.DirectionConsolidate:
		return o.paint(colorYellow, string(d))
	default:
		return o.paint(colorGray, string(d))
	}
}

// PlanStatus colors a trade plan status. FORBIDDEN plans render red so
// they are never mistaken for actionable setups.
func (o *Output) PlanStatus(s models.PlanStatus) string {
	switch s {
	case models.PlanRecommended:
		return o.paint(colorGreen, string(s))
	case models.PlanPossible:
		return o.paint(colorYellow, string(s))
	case models.PlanForbidden:
		return o.paint(colorRed, string(s))
	default:
		return string(s)
	}
}

func (o *Output) Verdict(v models.TrendVerdict) string {
	switch v {
	case models.TrendImproving:
		return o.paint(colorGreen, string(v))
	case models.TrendDegrading:
		return o.paint(colorRed, string(v))
	case models.TrendVolatile:
		return o.paint(colorYellow, string(v))
	default:
		return string(v)
	}
}

// Table renders aligned columnar output.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := len(stripANSI(cell)); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var sb strings.Builder
	for i, h := range t.headers {
		sb.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	fmt.Println(strings.TrimRight(sb.String(), " "))

	sb.Reset()
	for i := range t.headers {
		sb.WriteString(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println(strings.TrimRight(sb.String(), " "))

	for _, row := range t.rows {
		sb.Reset()
		for i, cell := range row {
			if i < len(widths) {
				pad := widths[i] - len(stripANSI(cell))
				sb.WriteString(cell + strings.Repeat(" ", pad) + "  ")
			}
		}
		fmt.Println(strings.TrimRight(sb.String(), " "))
	}
}

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
