package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dadok/readingclub/internal/domain"
)

const bookGroupResource = "bookgroup"

// GenerateETag generates an ETag for a resource based on its ID and updated_at timestamp.
// Format: "<resource_type>-<id>-<updated_at_unix_nano>"
func GenerateETag(resourceType, id string, updatedAt time.Time) string {
	return fmt.Sprintf(`"%s-%s-%d"`, resourceType, id, updatedAt.UnixNano())
}

// SetETagHeader sets the ETag header on the response.
func SetETagHeader(w http.ResponseWriter, resourceType, id string, updatedAt time.Time) {
	w.Header().Set("ETag", GenerateETag(resourceType, id, updatedAt))
}

// CheckIfMatch reports whether the request may modify the resource: either
// no If-Match header was sent or it matches the current ETag. "*" matches
// any existing resource.
func CheckIfMatch(r *http.Request, resourceType, id string, updatedAt time.Time) bool {
	ifMatch := r.Header.Get("If-Match")
	if ifMatch == "" || ifMatch == "*" {
		return true
	}
	return ifMatch == GenerateETag(resourceType, id, updatedAt)
}

// Book group ETag helpers
func SetBookGroupETag(w http.ResponseWriter, id int64, updatedAt time.Time) {
	SetETagHeader(w, bookGroupResource, strconv.FormatInt(id, 10), updatedAt)
}

func CheckBookGroupIfMatch(r *http.Request, group *domain.BookGroup) bool {
	return CheckIfMatch(r, bookGroupResource, strconv.FormatInt(group.ID, 10), group.UpdatedAt)
}
