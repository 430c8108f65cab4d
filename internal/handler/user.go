package handler

import (
	"net/http"

	"github.com/sakif/taskboard/internal/service"
)

// UserHandler serves the check-user endpoint.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleCheckUser resolves the user against the identity store and
// provisions them in the application store on first sight.
//
// HTTP: GET /check-user?user_id=123
//
// RESPONSE FORMAT:
//
//	{"message":"Welcome back, ada!","userId":123,"tasks":[...],"username":"ada"}
func (h *UserHandler) HandleCheckUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r, "User ID not provided in query parameters.")
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.ResolveOrProvision(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
