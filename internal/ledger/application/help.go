package application

import "os"

const defaultHelpText = `commands:
  paid <person> <amount> [date]    record a payment you made
  bought <amount> [date]           record what you spent buying lunch
  cost <amount>[+tax] [date]       record your share of lunch
  in [date] / out [date]           declare attendance
  choose <restaurant>              pick today's restaurant
  order <food>                     place your order
  show balances|pay?|payoffs|history|meal-summary|ordered?|discrepancies
  help                             this message
amounts are dollars; dates accept today, yesterday, weekday names, or 2006-01-02`

// FileHelp serves a static help document, loaded once at startup.
type FileHelp struct {
	text string
}

// NewFileHelp loads the help document from a file, falling back to the
// built-in text when the path is empty.
func NewFileHelp(path string) (*FileHelp, error) {
	if path == "" {
		return &FileHelp{text: defaultHelpText}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileHelp{text: string(data)}, nil
}

// HelpText returns the help document.
func (h *FileHelp) HelpText() string {
	return h.text
}
