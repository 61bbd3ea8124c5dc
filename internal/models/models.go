package models

// Post is a published blog post
type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Content  string    `json:"content"`
	Author   string    `json:"author"`
	Date     string    `json:"date"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
	Hashtags []string  `json:"hashtags"`
	Comments []Comment `json:"comments"`
	Views    uint64    `json:"views"`
}

// Comment is a reader comment attached to a post
type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	Avatar string `json:"avatar"`
}

// Category is one entry of the blog's category set
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
