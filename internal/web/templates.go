package web

import (
	"embed"
	"html/template"

	"github.com/eleven-am/bulldoggy/internal/reminders"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"listRow": newListRow,
}).ParseFS(templateFS, "templates/*.html"))

// gridView feeds reminders.html and grid.html.
type gridView struct {
	Username string
	Lists    []reminders.ReminderList
	Selected *reminders.SelectedList
}

type listRowView struct {
	List     reminders.ReminderList
	Selected bool
}

func newListRow(list reminders.ReminderList, selected *reminders.SelectedList) listRowView {
	return listRowView{
		List:     list,
		Selected: selected != nil && selected.ID == list.ID,
	}
}
