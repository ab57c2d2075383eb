package api

import (
	"context"
	"fmt"
	"net/http"
)

// PostComment is one comment under a community post.
type PostComment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// PostReaction is one reaction under a community post.
type PostReaction struct {
	ID           int64  `json:"id"`
	Author       string `json:"author"`
	ReactionType string `json:"reaction_type"`
	CreatedAt    string `json:"created_at"`
}

// Post is a community feed entry.
type Post struct {
	ID         int64          `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	CoverImage string         `json:"cover_image"`
	Visibility string         `json:"visibility"`
	Author     string         `json:"author"`
	Comments   []PostComment  `json:"comments"`
	Reactions  []PostReaction `json:"reactions"`
	MediaFiles []string       `json:"media_files"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

// CreatePostRequest publishes a post. Media files, when present, switch the
// request to multipart form encoding.
type CreatePostRequest struct {
	Title      string
	Content    string
	Visibility string
	Media      []MultipartFile
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.execute(ctx, http.MethodGet, "community/posts/", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = "PUBLIC"
	}

	var post Post
	if len(req.Media) == 0 {
		body := map[string]string{
			"title":      req.Title,
			"content":    req.Content,
			"visibility": visibility,
		}
		if err := c.execute(ctx, http.MethodPost, "community/posts/", body, &post); err != nil {
			return nil, err
		}
		return &post, nil
	}

	files := make([]MultipartFile, 0, len(req.Media))
	for _, f := range req.Media {
		f.Field = "media_files"
		files = append(files, f)
	}
	fields := map[string]string{
		"title":      req.Title,
		"content":    req.Content,
		"visibility": visibility,
	}
	if err := c.execute(ctx, http.MethodPost, "community/posts/", nil, &post, withMultipart(fields, files)); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CommentPost(ctx context.Context, id int64, message string) (*PostComment, error) {
	var comment PostComment
	body := map[string]string{"message": message}
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("community/posts/%d/comment/", id), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) ReactToPost(ctx context.Context, id int64, reactionType string) (*PostReaction, error) {
	var reaction PostReaction
	body := map[string]string{"reaction_type": reactionType}
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("community/posts/%d/react/", id), body, &reaction); err != nil {
		return nil, err
	}
	return &reaction, nil
}
