package image

import "time"

// Image is the persisted metadata for one uploaded picture. The bytes live
// in the storage backend under Key; the row never references a key that was
// not persisted first.
type Image struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Key       string    `db:"key" json:"key"`
	MimeType  string    `db:"mime_type" json:"mime_type"`
	Votes     int64     `db:"votes" json:"votes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
