package directory

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"call-digest-go/internal/types"
)

type yamlRoster struct {
	Agents []types.Agent `yaml:"agents"`
}

// LoadYAML reads a roster of the form `agents: [{name, phone, slack_handle, department}]`.
func LoadYAML(path string) ([]types.Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var roster yamlRoster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(roster.Agents) == 0 {
		return nil, ErrNoAgents
	}
	return roster.Agents, nil
}

// LoadSpreadsheet reads the first sheet of an xlsx roster, detecting columns
// from the header row.
func LoadSpreadsheet(path string) ([]types.Agent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrNoAgents
	}

	phoneIdx, nameIdx, fullNameIdx, handleIdx, deptIdx := -1, -1, -1, -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "phone") || strings.Contains(l, "number"):
			if phoneIdx == -1 {
				phoneIdx = i
			}
		case strings.Contains(l, "slack") || strings.Contains(l, "handle") || strings.Contains(l, "mention"):
			if handleIdx == -1 {
				handleIdx = i
			}
		case strings.Contains(l, "full"):
			if fullNameIdx == -1 {
				fullNameIdx = i
			}
		case strings.Contains(l, "name"):
			if nameIdx == -1 {
				nameIdx = i
			}
		case strings.Contains(l, "department") || strings.Contains(l, "team"):
			if deptIdx == -1 {
				deptIdx = i
			}
		}
	}
	if phoneIdx == -1 || nameIdx == -1 {
		return nil, fmt.Errorf("roster needs name and phone columns")
	}

	cell := func(r []string, idx int) string {
		if idx >= 0 && idx < len(r) {
			return strings.TrimSpace(r[idx])
		}
		return ""
	}

	var out []types.Agent
	for _, r := range rows[1:] {
		a := types.Agent{
			Phone:       cell(r, phoneIdx),
			Name:        cell(r, nameIdx),
			FullName:    cell(r, fullNameIdx),
			SlackHandle: cell(r, handleIdx),
			Department:  cell(r, deptIdx),
		}
		// blank rows are common at the end of hand-edited sheets
		if a.Phone == "" {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, ErrNoAgents
	}
	return out, nil
}
