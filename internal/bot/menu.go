package bot

import "github.com/eldtechnologies/keywordbot/internal/models"

// MenuItem is one button of the pricing menu and the prompt shown after it
// is pressed.
type MenuItem struct {
	Label  string
	Data   string
	Prompt string
}

// MenuSpec describes the button menu and its postback prompts.
type MenuSpec struct {
	Title   string
	Text    string
	AltText string
	Items   []MenuItem
}

// Postback identifiers of the pricing menu.
const (
	PostbackWall  = "structure_wall"
	PostbackFloor = "structure_floor"
	PostbackRoof  = "structure_roof"
)

// PricingMenu returns the default structure pricing menu.
func PricingMenu() MenuSpec {
	return MenuSpec{
		Title:   "結構報價",
		Text:    "請選擇要計算面積的項目",
		AltText: "結構報價選單",
		Items: []MenuItem{
			{Label: "牆面", Data: PostbackWall, Prompt: "請輸入牆面的長度與高度，以逗號分隔，例如：3,4"},
			{Label: "樓板", Data: PostbackFloor, Prompt: "請輸入樓板的長度與寬度，以逗號分隔，例如：5,6"},
			{Label: "屋頂", Data: PostbackRoof, Prompt: "請輸入屋頂的長度與寬度，以逗號分隔，例如：8,10"},
		},
	}
}

// Reply converts the menu definition into a menu reply.
func (m MenuSpec) Reply() *models.Menu {
	options := make([]models.MenuOption, len(m.Items))
	for i, item := range m.Items {
		options[i] = models.MenuOption{Label: item.Label, Data: item.Data}
	}
	return &models.Menu{
		Title:   m.Title,
		Text:    m.Text,
		AltText: m.AltText,
		Options: options,
	}
}
