// Package setup implements the interactive configuration wizard behind
// `kursi -setup`.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// fileConfig mirrors the YAML layout written by the wizard.
type fileConfig struct {
	DataDir        string `yaml:"data_dir"`
	Schedule       string `yaml:"schedule"`
	AgentAPIBase   string `yaml:"agent_api_base"`
	TaskTimeout    string `yaml:"task_timeout"`
	CnyNgnOverride string `yaml:"cny_ngn_override"`
}

// RunWizard walks through the settings and writes them to path.
func RunWizard(path string) error {
	var (
		dataDir        = "data"
		schedule       = "0 9 * * *"
		agentAPIBase   = "https://api.manus.im"
		taskTimeout    = "10m"
		cnyNgnOverride = "216"
		confirm        bool
	)

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KURSI CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Daily mineral purchase-price derivation.\n"))

	fmt.Println(stepStyle.Render("STEP 1: DATA & SCHEDULE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data directory").
				Description("Daily snapshot and report JSON files are written here").
				Value(&dataDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("data directory cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Schedule").
				Description("Cron spec for the daily run (e.g. 0 9 * * *)").
				Value(&schedule),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KURSI CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: PRICE FEED"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Agent API base URL").
				Description("Task API of the browsing agent (key comes from MANUS_API_KEY)").
				Value(&agentAPIBase),
			huh.NewInput().
				Title("Task timeout").
				Description("Duration string (e.g. 10m); scraping many pages takes a while").
				Value(&taskTimeout).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KURSI CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: EXCHANGE RATE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CNY/NGN override").
				Description("Pin the CNY/NGN leg (e.g. 216), or \"auto\" to use the scraped rate").
				Value(&cnyNgnOverride).
				Validate(func(s string) error {
					if s == "auto" {
						return nil
					}
					_, err := decimal.NewFromString(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KURSI CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write configuration to %s?", path)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	out, err := yaml.Marshal(fileConfig{
		DataDir:        dataDir,
		Schedule:       schedule,
		AgentAPIBase:   agentAPIBase,
		TaskTimeout:    taskTimeout,
		CnyNgnOverride: cnyNgnOverride,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}

	fmt.Println(stepStyle.Render(fmt.Sprintf("Config written to %s", path)))
	return nil
}
