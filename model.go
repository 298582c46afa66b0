package linefit

import (
	"fmt"
	"io"
	"strings"
)

// Model represents a serializeable format of a fit storing the options it started from, the
// current line, how many iterations produced it and its scores
type Model struct {
	Options    *Options `json:"options"`
	Line       Line     `json:"line"`
	Iterations uint64   `json:"iterations"`
	Scores     *Scores  `json:"scores"`
}

// TablePrint writes a human readable summary of the model to w
func (m Model) TablePrint(w io.Writer) error {
	return m.tablePrint(w, "", "  ")
}

func (m Model) tablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sFit:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sLine: %s\n", prefix, indentExpand(indent, 1), m.Line); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sIterations: %d\n", prefix, indentExpand(indent, 1), m.Iterations); err != nil {
		return err
	}

	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%s%sLearning Rate: %g\n", prefix, indentExpand(indent, 1), m.Options.LearningRate); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sInitial Line: %s\n", prefix, indentExpand(indent, 1), m.Options.Initial); err != nil {
			return err
		}
	}

	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, indentExpand(indent, 1),
			m.Scores.MAPE,
			m.Scores.MSE,
			m.Scores.R2,
		); err != nil {
			return err
		}
	}
	return nil
}

func indentExpand(indent string, growth int) string {
	return strings.Repeat(indent, growth)
}
