package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// SizeScore is the cached capacity of one size.
type SizeScore struct {
	Size      string `json:"size" yaml:"size"`
	Cached    bool   `json:"cached" yaml:"cached"`
	Available int64  `json:"available" yaml:"available"`
}

// FamilyScore matches the JSON/YAML/CSV structure.
type FamilyScore struct {
	Family    string `json:"family" yaml:"family"`
	Available int64  `json:"available" yaml:"available"`
	// Liquidity is nil when no configured family has capacity.
	Liquidity *float64    `json:"liquidity" yaml:"liquidity"`
	Sizes     []SizeScore `json:"sizes" yaml:"sizes"`
}

// CachedSizes counts sizes with a cached entry.
func (f FamilyScore) CachedSizes() int {
	n := 0
	for _, s := range f.Sizes {
		if s.Cached {
			n++
		}
	}
	return n
}

func (f FamilyScore) liquidityString() string {
	if f.Liquidity == nil {
		return ""
	}
	return strconv.FormatFloat(*f.Liquidity, 'f', 4, 64)
}

// Write renders scores in the named format.
func Write(w io.Writer, format string, scores []FamilyScore) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, scores)
	case FormatCSV:
		return WriteCSV(w, scores)
	case FormatJSON:
		return WriteJSON(w, scores)
	case FormatYAML:
		return WriteYAML(w, scores)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteCSV writes one row per family.
func WriteCSV(w io.Writer, scores []FamilyScore) error {
	cw := csv.NewWriter(w)

	header := []string{"Family", "Available", "Liquidity", "CachedSizes", "ConfiguredSizes"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range scores {
		record := []string{
			s.Family,
			strconv.FormatInt(s.Available, 10),
			s.liquidityString(),
			strconv.Itoa(s.CachedSizes()),
			strconv.Itoa(len(s.Sizes)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full breakdown, sizes included.
func WriteJSON(w io.Writer, scores []FamilyScore) error {
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes the full breakdown, sizes included.
func WriteYAML(w io.Writer, scores []FamilyScore) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scores); err != nil {
		return err
	}
	return enc.Close()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF99")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// WriteTable renders a bordered terminal table.
func WriteTable(w io.Writer, scores []FamilyScore) error {
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		liq := s.liquidityString()
		if liq == "" {
			liq = "n/a"
		}
		rows = append(rows, []string{
			s.Family,
			strconv.FormatInt(s.Available, 10),
			liq,
			fmt.Sprintf("%d/%d", s.CachedSizes(), len(s.Sizes)),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("FAMILY", "AVAILABLE", "LIQUIDITY", "CACHED SIZES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
