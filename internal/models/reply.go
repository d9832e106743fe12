package models

// Reply is the outgoing answer to a single event. Exactly one of Text or
// Menu is set.
type Reply struct {
	Text string `json:"text,omitempty"`
	Menu *Menu  `json:"menu,omitempty"`
}

// Menu is a button template; each option posts its Data back to the bot.
type Menu struct {
	Title   string       `json:"title"`
	Text    string       `json:"text"`
	AltText string       `json:"alt_text"`
	Options []MenuOption `json:"options"`
}

// MenuOption is a single button of a Menu.
type MenuOption struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// TextReply builds a plain text reply.
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// IsMenu reports whether the reply carries a button template.
func (r Reply) IsMenu() bool {
	return r.Menu != nil
}
