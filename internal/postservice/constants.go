package postservice

const (
	// Error messages for post service operations
	ErrFailedToCreatePost = "failed to create post"
	ErrRetrievingPosts    = "error retrieving posts"
)
