package blog

import (
	"time"
)

// Post is an editorial article.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Image       string    `json:"image"`
	ReadingTime string    `json:"reading_time"`
}
