package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jackchuka/gp/internal/config"
	"github.com/jackchuka/gp/internal/model"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up gp config interactively",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

type initStep int

const (
	stepWelcome   initStep = iota
	stepOverwrite          // only if config exists
	stepTemplate
	stepVerbose
	stepConfirm
	stepDone
)

var (
	styleInitTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("73"))
	styleInitSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	styleInitWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	styleInitDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// previewValues is the repository state the wizard renders templates with.
var previewValues = model.Values{
	Branch:    "main",
	Remote:    "origin/main",
	Ahead:     2,
	Stashed:   1,
	Unindexed: 1,
	Dirty:     1,
}

type initModel struct {
	step         initStep
	input        textinput.Model
	cfg          *config.Config
	configPath   string
	configExists bool
	parseErr     error
	err          error
	cancelled    bool
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	_, err := os.Stat(configPath)
	configExists := err == nil

	base := config.NewConfig()
	if configExists && cfg != nil {
		base = cfg
	}

	ti := textinput.New()
	ti.Placeholder = config.DefaultOutputs()["prompt"]
	ti.SetValue(base.Outputs["prompt"])
	ti.CharLimit = 256
	ti.Width = 60

	m := &initModel{
		step:         stepWelcome,
		input:        ti,
		cfg:          base,
		configPath:   configPath,
		configExists: configExists,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return err
	}

	if final, ok := result.(*initModel); ok && final.err != nil {
		return final.err
	}

	return nil
}

func (m *initModel) Init() tea.Cmd {
	return nil
}

func (m *initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	key := keyMsg.String()

	if key == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	switch m.step {
	case stepWelcome:
		if key == "enter" {
			if m.configExists {
				m.step = stepOverwrite
				return m, nil
			}
			return m, m.enterTemplate()
		}
		if key == "q" || key == "esc" {
			m.cancelled = true
			return m, tea.Quit
		}

	case stepOverwrite:
		if key == "y" || key == "Y" {
			return m, m.enterTemplate()
		}
		m.cancelled = true
		return m, tea.Quit

	case stepTemplate:
		switch key {
		case "enter":
			if m.parseErr == nil {
				m.cfg.Outputs["prompt"] = m.templateValue()
				m.input.Blur()
				m.step = stepVerbose
			}
			return m, nil
		case "esc":
			m.cancelled = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(keyMsg)
		m.parseErr = m.validate()
		return m, cmd

	case stepVerbose:
		switch key {
		case "y", "Y":
			m.cfg.Verbose = true
			m.step = stepConfirm
		case "n", "N", "enter":
			m.cfg.Verbose = false
			m.step = stepConfirm
		case "esc":
			return m, m.enterTemplate()
		}

	case stepConfirm:
		if key == "enter" {
			if err := config.Save(m.cfg, m.configPath); err != nil {
				m.err = err
			}
			m.step = stepDone
			return m, tea.Quit
		}
		if key == "esc" {
			m.step = stepVerbose
		}

	case stepDone:
		return m, tea.Quit
	}

	return m, nil
}

func (m *initModel) enterTemplate() tea.Cmd {
	m.step = stepTemplate
	m.parseErr = m.validate()
	m.input.Focus()
	return textinput.Blink
}

func (m *initModel) templateValue() string {
	if v := m.input.Value(); strings.TrimSpace(v) != "" {
		return v
	}
	return m.input.Placeholder
}

func (m *initModel) validate() error {
	c := *m.cfg
	c.Outputs = map[string]string{"prompt": m.templateValue()}
	return c.Validate()
}

// preview renders the current template against previewValues.
func (m *initModel) preview() string {
	c := *m.cfg
	c.Outputs = map[string]string{"prompt": m.templateValue()}
	set, err := c.Compile()
	if err != nil {
		return ""
	}
	return set.RenderOutputs(set.RenderFields(previewValues))["prompt"]
}

func (m *initModel) View() string {
	var b strings.Builder

	switch m.step {
	case stepWelcome:
		b.WriteString(styleInitTitle.Render("Welcome to gp!"))
		b.WriteString("\n\n")
		b.WriteString("Config will be saved to ")
		b.WriteString(styleInitDim.Render(m.configPath))
		b.WriteString("\n\n")
		b.WriteString(styleInitDim.Render("Press Enter to continue, Esc to cancel"))
		b.WriteString("\n")

	case stepOverwrite:
		b.WriteString(styleInitWarn.Render("Config already exists"))
		b.WriteString(" at ")
		b.WriteString(styleInitDim.Render(m.configPath))
		b.WriteString("\n\n")
		b.WriteString("Overwrite? ")
		b.WriteString(styleInitDim.Render("[y/N]"))
		b.WriteString("\n")

	case stepTemplate:
		b.WriteString(styleInitTitle.Render("Prompt template"))
		b.WriteString("\n\n")
		b.WriteString("Placeholders: ")
		b.WriteString(styleInitDim.Render(placeholderList()))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.parseErr != nil {
			b.WriteString(styleInitWarn.Render("  " + strings.ReplaceAll(m.parseErr.Error(), "\n", "\n  ")))
		} else {
			b.WriteString(styleInitDim.Render("  preview: "))
			b.WriteString(styleInitSuccess.Render(m.preview()))
		}
		b.WriteString("\n")

	case stepVerbose:
		b.WriteString(styleInitTitle.Render("Verbose mode"))
		b.WriteString("\n\n")
		b.WriteString("Count indexed, unindexed and untracked files with a full status scan?\n")
		b.WriteString(styleInitDim.Render("Slower in large repositories. [y/N]"))
		b.WriteString("\n")

	case stepConfirm:
		b.WriteString(styleInitTitle.Render("Ready to write config"))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "  prompt:  %s\n", m.cfg.Outputs["prompt"])
		fmt.Fprintf(&b, "  verbose: %t\n", m.cfg.Verbose)
		b.WriteString("\n")
		b.WriteString(styleInitDim.Render("[Enter] Write config  [Esc] Go back"))
		b.WriteString("\n")

	case stepDone:
		if m.err != nil {
			b.WriteString(styleInitWarn.Render("Error: " + m.err.Error()))
			b.WriteString("\n")
		} else {
			b.WriteString(styleInitSuccess.Render("Config saved to " + m.configPath))
			b.WriteString("\n\n")
			b.WriteString("Add ")
			b.WriteString(styleInitTitle.Render(`eval "$(gp)"`))
			b.WriteString(" to your prompt hook and use $GP_PROMPT.\n")
		}
	}

	return b.String()
}

func placeholderList() string {
	names := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		names[i] = "{" + string(f) + "}"
	}
	return strings.Join(names, " ")
}
