package constants

const (
	// Collection/table names shared by the durable backends.
	UsersCollection = "users"
	PostsCollection = "posts"

	// DefaultFeedLimit caps the global feed and the user listing.
	DefaultFeedLimit = 50
)
