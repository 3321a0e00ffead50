package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/socius-org/RedditHarbor/models"
)

type projectForm struct {
	inputs    [2]textinput.Model
	focus     int
	editingID string
	errMsg    string
	saving    bool
}

func newProjectForm(project *models.Project) projectForm {
	var f projectForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].Width = 48
	}
	if project != nil {
		f.editingID = project.ID
		f.inputs[0].SetValue(project.Name)
		f.inputs[1].SetValue(project.Description)
	}
	f.inputs[0].Focus()
	return f
}

func (f *projectForm) setFocus(focus int) {
	f.focus = (focus + len(f.inputs)) % len(f.inputs)
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f projectForm) View() string {
	title := "New project"
	if f.editingID != "" {
		title = "Edit project"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("Name:        [" + f.inputs[0].View() + "]\n")
	b.WriteString("Description: [" + f.inputs[1].View() + "]\n")
	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + f.errMsg))
		b.WriteString("\n")
	}
	if f.saving {
		b.WriteString("\nSaving...\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter save  tab next field  esc cancel"))
	return b.String()
}
