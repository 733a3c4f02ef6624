package cli

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Color palette.
var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorProxy   = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks classes that composed and activated.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle marks abstract classes.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// isTerminal reports whether w is an interactive terminal. Styled tables
// are only drawn for terminals; everything else gets plain text.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &ExitError{Code: exitSysError, Err: err}
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

var memberHeaders = []string{"#", "NAME", "KIND", "VISIBILITY", "MODIFIERS", "ARITY", "ORIGIN", "PROXIED"}

// renderMembers writes a resolved member table. Terminals get a bordered,
// colored table; other writers get the same columns with plain borders.
func renderMembers(w io.Writer, members []types.MemberRecord) error {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		arity := ""
		if m.Kind == types.KindMethod.String() {
			arity = strconv.Itoa(m.Arity)
		}
		proxied := ""
		if m.Proxied {
			proxied = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(m.Ordinal), m.Name, m.Kind, m.Visibility, m.Modifiers,
			arity, m.OriginKind + " " + m.OriginName, proxied,
		})
	}

	styled := isTerminal(w)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(memberHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if !styled {
				return cell
			}
			switch {
			case row == table.HeaderRow:
				return cell.Bold(true).Foreground(ColorPrimary)
			case col == 7 && rows[row][col] != "":
				return cell.Foreground(ColorProxy)
			case col == 6:
				return cell.Foreground(ColorMuted)
			}
			return cell
		})
	if styled {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted))
	}
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
