package model

import "fmt"

// ================== 通用响应 ==================

// APIResponse is the standard API response format
type APIResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Source  string      `json:"source,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ================== 电影数据模型 ==================

const (
	// DefaultFilmName is used when the source record carries no title
	DefaultFilmName = "Untitled"
	// DefaultFilmDescription is used when the source record carries no description
	DefaultFilmDescription = "Sin descripción"
)

// Film is the canonical record shown by the views.
// ID is kept exactly as the source sent it (string or json.Number).
type Film struct {
	ID          interface{} `json:"id"`
	Name        string      `json:"name"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
}

// IDString renders the identifier for routing and lookups
func (f Film) IDString() string {
	if f.ID == nil {
		return ""
	}
	return fmt.Sprint(f.ID)
}

// RawFilm is one element of the remote films array, fields unknown up front
type RawFilm map[string]interface{}

// ================== 缓存相关 ==================

// CachePayload is the envelope persisted in the cache slot
type CachePayload struct {
	SavedAt int64  `json:"savedAt"` // ms since epoch
	Items   []Film `json:"items"`
}

// ================== 状态 ==================

// Where the current films came from
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// State is the snapshot observers see: films, loading flag and last error
type State struct {
	Films   []Film
	Loading bool
	Err     error
	Source  string
}

// Clone returns a copy whose Films slice is not shared
func (s State) Clone() State {
	films := make([]Film, len(s.Films))
	copy(films, s.Films)
	s.Films = films
	return s
}
