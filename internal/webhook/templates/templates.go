package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"calnotify/pkg/locale"
	"calnotify/pkg/model"
)

//go:embed *.html.tmpl *.txt.tmpl
var files embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(files, "*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(files, "*.txt.tmpl"))
)

var subjectPrefixes = map[model.Trigger]string{
	model.TriggerCreated:     "Confirmed",
	model.TriggerRescheduled: "Rescheduled",
	model.TriggerCancelled:   "Cancelled",
}

// Data is the view model shared by every notification template.
type Data struct {
	ProductName        string
	Title              string
	Description        string
	AttendeeName       string
	HostName           string
	HostEmail          string
	Location           string
	When               locale.When
	CancellationReason string
	RebookURL          string
}

type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// NewData builds the view model for s, rendering times in the attendee's
// zone.
func NewData(s *model.BookingSnapshot, productName, rebookURL string) Data {
	return Data{
		ProductName:        productName,
		Title:              s.Title,
		Description:        s.Description,
		AttendeeName:       s.AttendeeName,
		HostName:           s.HostName,
		HostEmail:          s.HostEmail,
		Location:           s.Location,
		When:               locale.Describe(s.StartTime, s.EndTime, s.AttendeeTimeZone),
		CancellationReason: s.CancellationReason,
		RebookURL:          rebookURL,
	}
}

func Render(trigger model.Trigger, data Data) (*Rendered, error) {
	prefix, ok := subjectPrefixes[trigger]
	if !ok {
		return nil, fmt.Errorf("no template for trigger %q", trigger)
	}

	name := string(trigger)

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", name, err)
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", name, err)
	}

	return &Rendered{
		Subject: prefix + ": " + data.Title,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
