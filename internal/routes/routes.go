// Package routes holds the HTTP API paths and the client-side view routes.
package routes

// API
const (
	Health         = "/health"
	APIBlogs       = "/api/blogs"
	APIBlogByID    = "/api/blogs/{id}"
	APISaveDraft   = "/api/blogs/save-draft"
	APIPublishBlog = "/api/blogs/publish"
)

// Views
const (
	List     = "/"
	Login    = "/login"
	Register = "/register"
	New      = "/new"
	editBase = "/edit/"
)

func Edit(id string) string {
	return editBase + id
}

func BlogByID(id string) string {
	return APIBlogs + "/" + id
}

// Gated reports whether a view route needs an authenticated session.
func Gated(route string) bool {
	return route == New || (len(route) > len(editBase) && route[:len(editBase)] == editBase)
}
