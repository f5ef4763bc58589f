// Package queue defines message payloads exchanged over the message broker.
package queue

// PostPublishedEvent is published when a contributor publishes a post.
// It contains enough information for downstream consumers to log,
// notify the family, or rebuild feeds without querying the primary
// database.
type PostPublishedEvent struct {
    PostID      uint64 `json:"post_id"`
    Slug        string `json:"slug"`
    Title       string `json:"title"`
    Author      string `json:"author"`
    TemplateID  string `json:"template_id"`
    PublishedAt string `json:"published_at"`
}
