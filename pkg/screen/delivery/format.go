package delivery

import (
	"html"
	"strings"

	screenPkg "github.com/KeynihAV/aladdin/pkg/screen"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const emptyInput = "…"

// Format turns one frame into the HTML text and inline keyboard of the
// screen message. Buttons of the same group share a keyboard row.
func Format(ins []screenPkg.Instruction) (string, tgbotapi.InlineKeyboardMarkup) {
	var (
		lines []string
		rows  [][]tgbotapi.InlineKeyboardButton
		group string
	)

	addButton := func(label, action, g string) {
		btn := tgbotapi.NewInlineKeyboardButtonData(label, action)
		if g != "" && g == group && len(rows) > 0 {
			rows[len(rows)-1] = append(rows[len(rows)-1], btn)
			return
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
		group = g
	}

	for _, in := range ins {
		text := html.EscapeString(in.Text)
		switch in.Kind {
		case screenPkg.KindHeader:
			lines = append(lines, "<b>"+text+", "+html.EscapeString(in.Value)+"</b>")
		case screenPkg.KindSection:
			lines = append(lines, "", "<b>"+text+"</b>")
		case screenPkg.KindText:
			line := text
			if in.Value != "" {
				line += ": <code>" + html.EscapeString(in.Value) + "</code>"
			}
			if in.Detail != "" {
				line += "\n<i>" + html.EscapeString(in.Detail) + "</i>"
			}
			lines = append(lines, line)
		case screenPkg.KindBalance:
			line := text + ": <b>" + html.EscapeString(in.Amount) + "</b>"
			if in.Detail != "" {
				line += " (" + html.EscapeString(in.Detail) + ")"
			}
			lines = append(lines, line)
		case screenPkg.KindItem:
			line := "• <b>" + text + "</b>"
			for _, part := range []string{in.Detail, in.Amount, in.Value} {
				if part != "" {
					line += " | " + html.EscapeString(part)
				}
			}
			lines = append(lines, line)
		case screenPkg.KindPlaceholder:
			lines = append(lines, "<i>"+text+"</i>")
		case screenPkg.KindCode:
			lines = append(lines, text+": <code>"+html.EscapeString(in.Value)+"</code>")
		case screenPkg.KindInput:
			value := in.Value
			if value == "" {
				value = emptyInput
			}
			marker := ""
			if in.Active {
				marker = "✏️ "
			}
			lines = append(lines, marker+text+": "+html.EscapeString(value))
			addButton("✏️ "+in.Text, in.Action, "")
		case screenPkg.KindButton:
			label := in.Text
			if in.Detail != "" {
				label += " · " + in.Detail
			}
			if in.Active {
				label = "✅ " + label
			}
			addButton(label, in.Action, in.Group)
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
