package image

import "time"

// ImageResponse is one feed entry as returned to clients. URL is resolved
// by the active storage backend; everything else comes straight off the
// entity.
type ImageResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Votes     int64  `json:"votes"`
	CreatedAt string `json:"created_at"`
}

// ResponseFromEntity converts an entity to a response DTO.
func ResponseFromEntity(img *Image, url string) *ImageResponse {
	return &ImageResponse{
		ID:        img.ID,
		Title:     img.Title,
		URL:       url,
		Votes:     img.Votes,
		CreatedAt: img.CreatedAt.Format(time.RFC3339),
	}
}

// AssembleFeed joins ranked images with backend-resolved URLs. locate is the
// active backend's URL method; no other data access happens here.
func AssembleFeed(images []*Image, locate func(key string) string) []*ImageResponse {
	entries := make([]*ImageResponse, len(images))
	for i, img := range images {
		entries[i] = ResponseFromEntity(img, locate(img.Key))
	}
	return entries
}

// UpvoteResponse reports the vote count after an upvote.
type UpvoteResponse struct {
	ID    int64 `json:"id"`
	Votes int64 `json:"votes"`
}
