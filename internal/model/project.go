package model

type Project struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	GitHubURL   string   `json:"githubUrl,omitempty"`
	LiveURL     string   `json:"liveUrl,omitempty"`
	Order       int      `json:"order"`
	Tags        []string `json:"tags,omitempty"`
	Content     string   `json:"-"`
	HTMLContent string   `json:"html,omitempty"`
}
