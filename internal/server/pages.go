package server

import (
	"time"

	"github.com/goliatone/go-formsubmit/pkg/submit"
)

// RuntimePrefix is the URL prefix of the browser runtime assets.
const RuntimePrefix = "/runtime/"

// FormField describes one input on the log in or register page.
type FormField struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	FieldType    string `json:"field_type"`
	Placeholder  string `json:"placeholder,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
}

// LogRegPage is the view model of templates/logreg.html.
type LogRegPage struct {
	Title          string      `json:"title"`
	Action         string      `json:"action"`
	Method         string      `json:"method"`
	Profile        string      `json:"profile"`
	Fields         []FormField `json:"fields"`
	Year           int         `json:"year"`
	FeedbackPrefix string      `json:"feedback_prefix"`
	RuntimePrefix  string      `json:"runtime_prefix"`
}

// HomePage is the view model of templates/home.html.
type HomePage struct {
	Title string `json:"title"`
	Name  string `json:"name,omitempty"`
	Year  int    `json:"year"`
}

var loginFields = []FormField{
	{ID: "email", Text: "Email", FieldType: "email", Placeholder: "you@example.com", Autocomplete: "email"},
	{ID: "password", Text: "Password", FieldType: "password", Autocomplete: "current-password"},
}

var registerFields = []FormField{
	{ID: "first_name", Text: "First Name", FieldType: "text", Autocomplete: "given-name"},
	{ID: "last_name", Text: "Last Name", FieldType: "text", Autocomplete: "family-name"},
	{ID: "email", Text: "Email", FieldType: "email", Placeholder: "you@example.com", Autocomplete: "email"},
	{ID: "password", Text: "Password", FieldType: "password", Autocomplete: "new-password"},
	{ID: "confirm_password", Text: "Confirm Password", FieldType: "password", Autocomplete: "new-password"},
}

func (s *Server) loginPage(now time.Time) LogRegPage {
	return s.logRegPage("Log In", submit.LoginProfile(), loginFields, now)
}

func (s *Server) registerPage(now time.Time) LogRegPage {
	return s.logRegPage("Register", submit.RegisterProfile(), registerFields, now)
}

func (s *Server) logRegPage(title string, profile submit.Profile, fields []FormField, now time.Time) LogRegPage {
	return LogRegPage{
		Title:          title,
		Action:         profile.Endpoint,
		Method:         "POST",
		Profile:        profile.Name,
		Fields:         fields,
		Year:           now.Year(),
		FeedbackPrefix: s.cfg.FeedbackPrefix,
		RuntimePrefix:  RuntimePrefix,
	}
}
