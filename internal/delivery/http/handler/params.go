package handler

import (
	"errors"
	"net/http"
	"strconv"

	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var errInvalidPathID = errors.New("invalid path id")

// pathUUID parses the named mux path variable
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errInvalidPathID
	}
	return id, nil
}

// pageParams reads ?page and ?limit, falling back to defaults on bad input
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return usecase.NormalizePage(page, limit)
}

// currentUser writes 401 and returns false when the request carries no principal
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return userID, ok
}
