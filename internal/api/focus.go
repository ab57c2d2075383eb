package api

import (
	"context"
	"fmt"
	"net/http"
)

// VideoComment is one comment under a focus video.
type VideoComment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// FocusVideo is a short product-showcase video.
type FocusVideo struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Creator      string         `json:"creator"`
	VideoURL     string         `json:"video_url"`
	CoverURL     string         `json:"cover_url"`
	Status       string         `json:"status"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	IsLiked      bool           `json:"is_liked"`
	Comments     []VideoComment `json:"comments"`
	CanDelete    bool           `json:"can_delete"`
	CreatedAt    string         `json:"created_at"`
}

// UploadVideoRequest publishes a video with an optional cover image.
type UploadVideoRequest struct {
	Title       string
	Description string
	Video       MultipartFile
	Cover       *MultipartFile
}

func (c *Client) FocusVideos(ctx context.Context, params map[string]string) ([]FocusVideo, error) {
	var videos []FocusVideo
	if err := c.execute(ctx, http.MethodGet, "focus/videos/", nil, &videos, withQuery(params)); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *Client) UploadFocusVideo(ctx context.Context, req UploadVideoRequest) (*FocusVideo, error) {
	fields := map[string]string{"title": req.Title}
	if req.Description != "" {
		fields["description"] = req.Description
	}

	video := req.Video
	video.Field = "video_file"
	files := []MultipartFile{video}
	if req.Cover != nil {
		cover := *req.Cover
		cover.Field = "cover_file"
		files = append(files, cover)
	}

	var created FocusVideo
	if err := c.execute(ctx, http.MethodPost, "focus/videos/", nil, &created, withMultipart(fields, files)); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RemoveFocusVideo(ctx context.Context, id int64) error {
	return c.execute(ctx, http.MethodDelete, focusVideoPath(id, ""), nil, nil)
}

func (c *Client) LikeFocusVideo(ctx context.Context, id int64) (*FocusVideo, error) {
	var video FocusVideo
	if err := c.execute(ctx, http.MethodPost, focusVideoPath(id, "like/"), nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) FocusVideoComments(ctx context.Context, id int64) ([]VideoComment, error) {
	var comments []VideoComment
	if err := c.execute(ctx, http.MethodGet, focusVideoPath(id, "comments/"), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) AddFocusVideoComment(ctx context.Context, id int64, content string) (*VideoComment, error) {
	var comment VideoComment
	body := map[string]string{"content": content}
	if err := c.execute(ctx, http.MethodPost, focusVideoPath(id, "comments/"), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeactivateFocusVideo(ctx context.Context, id int64) error {
	return c.execute(ctx, http.MethodPost, focusVideoPath(id, "deactivate/"), nil, nil)
}

func (c *Client) RestoreFocusVideo(ctx context.Context, id int64) error {
	return c.execute(ctx, http.MethodPost, focusVideoPath(id, "restore/"), nil, nil)
}

func focusVideoPath(id int64, suffix string) string {
	return fmt.Sprintf("focus/videos/%d/%s", id, suffix)
}
