package store

// User is one row in the users table.
type User struct {
	ID           string `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	Password     string `db:"password" json:"-"`
	APIKey       string `db:"api_key" json:"-"`
	Tier         string `db:"tier" json:"tier"`
	APICalls     int    `db:"api_calls" json:"-"`
	MonthlyPosts int    `db:"monthly_posts" json:"monthly_posts"`
	IsAdmin      bool   `db:"is_admin" json:"is_admin"`
}

// Draft is a saved post variant for one platform. Content is stored with the
// leading number marker already stripped.
type Draft struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"-"`
	Content   string `db:"content" json:"content"`
	Platform  string `db:"platform" json:"platform"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Post is a published (or approval-pending) post. Platforms and PostIDs are
// JSON-encoded in their TEXT columns.
type Post struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"-"`
	Content   string `db:"content" json:"content"`
	Platforms string `db:"platforms" json:"platforms"`
	Status    string `db:"status" json:"status"`
	PostIDs   string `db:"post_ids" json:"post_ids"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// PlatformToken holds a user's (encrypted) credentials for one platform.
type PlatformToken struct {
	UserID       string  `db:"user_id"`
	Platform     string  `db:"platform"`
	AccessToken  string  `db:"access_token"`
	RefreshToken *string `db:"refresh_token"`
	Expiry       int64   `db:"expiry"`
}
