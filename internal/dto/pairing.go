package dto

type SetPartnerRequest struct {
	Partner string `json:"partner"`
}

type ChooseThemeRequest struct {
	Theme string `json:"theme"`
}

type PairStateResponse struct {
	Partner      string        `json:"partner"`
	Theme        string        `json:"theme,omitempty"`
	ThemeChoices []string      `json:"themeChoices,omitempty"`
	Prompt       string        `json:"prompt,omitempty"`
	Messages     []MessageView `json:"messages"`
	CanRequest   bool          `json:"canRequestFriend"`
}

type PromptResponse struct {
	Prompt string `json:"prompt"`
}
