package discovery

// Repo is a backend git store found under the repos base directory.
type Repo struct {
	Name string `json:"name"` // directory name with a trailing .git stripped
	Path string `json:"path"` // absolute store path
}

// Task is a per-issue directory found under the tasks base directory.
type Task struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
