package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/doctor"
	"github.com/oxcsml/zizkeys/internal/slurm"
	"github.com/oxcsml/zizkeys/internal/ui"
)

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput holds the results for one category of checks.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand() error {
	// Config load errors are surfaced by the config check, not here.
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		cfg = config.DefaultConfig()
	}

	checks := collectChecks(cfg)

	grouped, order := doctor.GroupByCategory(checks)

	output := DoctorOutput{}
	for _, cat := range order {
		results := doctor.RunAll(grouped[cat])
		output.Categories = append(output.Categories, CategoryOutput{Name: cat, Results: results})
		for _, r := range results {
			switch r.Status {
			case doctor.StatusPass:
				output.Summary.Pass++
			case doctor.StatusWarn:
				output.Summary.Warn++
			case doctor.StatusFail:
				output.Summary.Fail++
			}
		}
	}
	output.Summary.AllClear = output.Summary.Fail == 0

	if doctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	renderDoctorText(output)
	return nil
}

// collectChecks gathers the diagnostic checks.
func collectChecks(cfg *config.Config) []doctor.Check {
	checks := []doctor.Check{
		&doctor.ConfigFileCheck{Explicit: Config()},
		&doctor.KeyFileCheck{Cfg: cfg},
	}

	checks = append(checks, doctor.NewDependencyChecks()...)

	// The partitions check only makes sense with sinfo available; its
	// absence is already reported by the dependency checks.
	if _, err := exec.LookPath(cfg.Srun.SinfoBinary); err == nil {
		checks = append(checks, &doctor.PartitionsCheck{
			Cfg:    cfg,
			Lister: slurm.NewClient(cfg.Srun.Binary, cfg.Srun.SinfoBinary),
		})
	}

	checks = append(checks, &doctor.LoginHostCheck{Host: cfg.LoginHost})

	return checks
}

// renderDoctorText prints human-readable doctor output.
func renderDoctorText(output DoctorOutput) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Println()
	for _, cat := range output.Categories {
		fmt.Println(headerStyle.Render(cat.Name))
		for _, r := range cat.Results {
			var line string
			switch r.Status {
			case doctor.StatusPass:
				line = fmt.Sprintf("  %s %s", successStyle.Render(ui.SymbolSuccess), r.Message)
			case doctor.StatusWarn:
				line = fmt.Sprintf("  %s %s", warnStyle.Render(ui.SymbolFail), r.Message)
			case doctor.StatusFail:
				line = fmt.Sprintf("  %s %s", errorStyle.Render(ui.SymbolFail), r.Message)
			}
			fmt.Println(line)
			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				fmt.Printf("    %s\n", mutedStyle.Render(r.Suggestion))
			}
		}
		fmt.Println()
	}

	ui.Divider(os.Stdout)
	if output.Summary.AllClear {
		fmt.Printf("%s %d checks passed (%d warnings)\n",
			successStyle.Render(ui.SymbolSuccess), output.Summary.Pass, output.Summary.Warn)
	} else {
		fmt.Printf("%s %d failed, %d warnings, %d passed\n",
			errorStyle.Render(ui.SymbolFail), output.Summary.Fail, output.Summary.Warn, output.Summary.Pass)
	}
	fmt.Println()
}
