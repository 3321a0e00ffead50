package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/socius-org/RedditHarbor/internal/service"
	"github.com/socius-org/RedditHarbor/models"
)

const (
	idxClaudeKey = iota
	idxOpenAIKey
	idxSupabaseURL
	idxSupabaseKey
	idxOSFKey
	apiKeyFieldCount
)

var apiKeyLabels = [apiKeyFieldCount]string{
	"Claude API key:      ",
	"OpenAI API key:      ",
	"Supabase URL:        ",
	"Supabase API key:    ",
	"OSF API key:         ",
}

var apiKeyFieldNames = [apiKeyFieldCount]string{
	models.FieldClaudeKey,
	models.FieldOpenAIKey,
	models.FieldSupabaseProjectURL,
	models.FieldSupabaseAPIKey,
	models.FieldOSFAPIKey,
}

type apiKeysForm struct {
	inputs      [apiKeyFieldCount]textinput.Model
	focus       int
	fieldErrors map[string][]string
	formErrors  []string
	results     []service.ConnectionResult
	saving      bool
	testing     bool
}

func newApiKeysForm(keys models.ApiKeys) apiKeysForm {
	var f apiKeysForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].Width = 48
	}

	// Secrets are masked; the project URL is not one.
	for _, i := range []int{idxClaudeKey, idxOpenAIKey, idxSupabaseKey, idxOSFKey} {
		f.inputs[i].EchoMode = textinput.EchoPassword
		f.inputs[i].EchoCharacter = '*'
	}

	f.inputs[idxClaudeKey].SetValue(keys.ClaudeKey)
	f.inputs[idxOpenAIKey].SetValue(keys.OpenAIKey)
	f.inputs[idxSupabaseURL].SetValue(keys.SupabaseProjectURL)
	f.inputs[idxSupabaseKey].SetValue(keys.SupabaseAPIKey)
	f.inputs[idxOSFKey].SetValue(keys.OSFAPIKey)
	f.inputs[0].Focus()
	return f
}

func (f apiKeysForm) toApiKeys() models.ApiKeys {
	return models.ApiKeys{
		ClaudeKey:          f.inputs[idxClaudeKey].Value(),
		OpenAIKey:          f.inputs[idxOpenAIKey].Value(),
		SupabaseProjectURL: f.inputs[idxSupabaseURL].Value(),
		SupabaseAPIKey:     f.inputs[idxSupabaseKey].Value(),
		OSFAPIKey:          f.inputs[idxOSFKey].Value(),
	}
}

func (f *apiKeysForm) setFocus(focus int) {
	f.focus = (focus + apiKeyFieldCount) % apiKeyFieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f apiKeysForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("API keys"))
	b.WriteString("\n\n")

	for _, msg := range f.formErrors {
		b.WriteString(errorStyle.Render("! " + msg))
		b.WriteString("\n")
	}
	if len(f.formErrors) > 0 {
		b.WriteString("\n")
	}

	for i := range f.inputs {
		b.WriteString(apiKeyLabels[i])
		b.WriteString("[")
		b.WriteString(f.inputs[i].View())
		b.WriteString("]\n")
		for _, msg := range f.fieldErrors[apiKeyFieldNames[i]] {
			b.WriteString(errorStyle.Render("  ! " + msg))
			b.WriteString("\n")
		}
	}

	if f.testing {
		b.WriteString("\nTesting connections...\n")
	}
	for _, r := range f.results {
		b.WriteString("\n")
		if r.OK {
			b.WriteString(okStyle.Render("  ok " + r.Provider + ": " + r.Detail))
		} else {
			b.WriteString(errorStyle.Render("  !! " + r.Provider + ": " + r.Detail))
		}
	}
	if len(f.results) > 0 {
		b.WriteString("\n")
	}

	if f.saving {
		b.WriteString("\nSaving...\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter save  tab next field  ctrl+t test connections  esc back"))
	return b.String()
}
